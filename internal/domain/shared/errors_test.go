package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("login: %w", ErrUnauthorized.WithMessage("Wrong password"))

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "login: Wrong password", err.Error())
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrUpstream.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ErrUpstream.Cause, "WithCause must not mutate the shared value")
}
