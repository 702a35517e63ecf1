package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideAuthArea(t *testing.T) {
	user := &User{ID: 1, DomainStore: "acme"}

	tests := []struct {
		name string
		snap Snapshot
		want Decision
	}{
		{
			name: "loading",
			snap: Snapshot{Loading: true, User: user, StoreExists: true},
			want: Decision{Outcome: OutcomeLoading},
		},
		{
			name: "user on existing store renders",
			snap: Snapshot{User: user, StoreExists: true},
			want: Decision{Outcome: OutcomeRender},
		},
		{
			name: "user without store goes to tenant login",
			snap: Snapshot{User: user},
			want: Decision{Outcome: OutcomeHardRedirect, Target: TargetTenantLogin, Slug: "acme"},
		},
		{
			name: "anonymous on existing store goes to local login",
			snap: Snapshot{StoreExists: true},
			want: Decision{Outcome: OutcomeSoftRedirect, Target: TargetLogin},
		},
		{
			name: "anonymous without store goes to registration",
			snap: Snapshot{},
			want: Decision{Outcome: OutcomeHardRedirect, Target: TargetRegistration},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideAuthArea(tt.snap))
		})
	}
}

func TestDecideLoginPage(t *testing.T) {
	user := &User{ID: 1, DomainStore: "acme"}

	tests := []struct {
		name string
		snap Snapshot
		want Decision
	}{
		{
			name: "loading",
			snap: Snapshot{Loading: true},
			want: Decision{Outcome: OutcomeLoading},
		},
		{
			name: "anonymous on existing store renders form",
			snap: Snapshot{StoreExists: true},
			want: Decision{Outcome: OutcomeRender},
		},
		{
			name: "anonymous without store goes to registration",
			snap: Snapshot{},
			want: Decision{Outcome: OutcomeHardRedirect, Target: TargetRegistration},
		},
		{
			name: "signed in on existing store goes home",
			snap: Snapshot{User: user, StoreExists: true},
			want: Decision{Outcome: OutcomeSoftRedirect, Target: TargetHome},
		},
		{
			name: "signed in without store goes to tenant login",
			snap: Snapshot{User: user},
			want: Decision{Outcome: OutcomeHardRedirect, Target: TargetTenantLogin, Slug: "acme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideLoginPage(tt.snap))
		})
	}
}

// Every settled combination of user and store reaches exactly one outcome,
// and never the loading one.
func TestDecide_SettledCombinationsAreTotal(t *testing.T) {
	for _, hasUser := range []bool{true, false} {
		for _, storeExists := range []bool{true, false} {
			snap := Snapshot{StoreExists: storeExists}
			if hasUser {
				snap.User = &User{DomainStore: "acme"}
			}

			for _, d := range []Decision{DecideAuthArea(snap), DecideLoginPage(snap)} {
				assert.NotEqual(t, OutcomeLoading, d.Outcome)
				if d.Outcome == OutcomeRender {
					assert.Equal(t, TargetNone, d.Target)
				} else {
					assert.NotEqual(t, TargetNone, d.Target)
				}
			}
		}
	}
}

func TestOutcomeAndTargetStrings(t *testing.T) {
	assert.Equal(t, "hard_redirect", OutcomeHardRedirect.String())
	assert.Equal(t, "unknown", Outcome(99).String())
	assert.Equal(t, "tenant_login", TargetTenantLogin.String())
	assert.Equal(t, "none", Target(99).String())
}
