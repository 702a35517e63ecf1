package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewAuthEvent(t *testing.T) {
	e := NewAuthEvent(KindLogout, "acme.ocm.vn")

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, KindLogout, e.Kind)
	assert.Equal(t, "acme.ocm.vn", e.Host)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, KindBootstrapFailed.Valid())
	assert.True(t, KindLoginFailed.Valid())
	assert.False(t, Kind("password_reset").Valid())
}

func TestFilter_Normalize(t *testing.T) {
	assert.Equal(t, DefaultLimit, Filter{}.Normalize().Limit)
	assert.Equal(t, 10, Filter{Limit: 10}.Normalize().Limit)
	assert.Equal(t, MaxLimit, Filter{Limit: 10_000}.Normalize().Limit)
}
