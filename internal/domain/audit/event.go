// Package audit records authentication activity per store host.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an auth event
type Kind string

const (
	KindBootstrapFailed Kind = "bootstrap_failed"
	KindLoginSucceeded  Kind = "login_succeeded"
	KindLoginFailed     Kind = "login_failed"
	KindLogout          Kind = "logout"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindBootstrapFailed, KindLoginSucceeded, KindLoginFailed, KindLogout:
		return true
	}
	return false
}

// AuthEvent is one entry of the auth event log.
type AuthEvent struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Host      string    `json:"host"`
	StoreSlug string    `json:"store_slug,omitempty"`
	Email     string    `json:"email,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAuthEvent creates an event stamped with a fresh id and the current time
func NewAuthEvent(kind Kind, host string) *AuthEvent {
	return &AuthEvent{
		ID:        uuid.New(),
		Kind:      kind,
		Host:      host,
		CreatedAt: time.Now().UTC(),
	}
}

// Filter narrows FindRecent. Host is mandatory so one store never reads
// another store's events.
type Filter struct {
	Host  string
	Kind  Kind
	Limit int
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Normalize clamps the limit into [1, MaxLimit]
func (f Filter) Normalize() Filter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	return f
}

// Repository persists auth events
type Repository interface {
	Record(ctx context.Context, event *AuthEvent) error
	FindRecent(ctx context.Context, filter Filter) ([]AuthEvent, error)
}
