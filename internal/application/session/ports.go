package session

import (
	"context"
	"time"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
)

// Keys of the persisted client storage
const (
	AccessTokenKey  = "ACCESS_TOKEN"
	RefreshTokenKey = "REFRESH_TOKEN"
)

// Caller identifies the store host and credentials a backend call acts for.
// An empty AccessToken means an anonymous call.
type Caller struct {
	Host        string
	AccessToken string
}

// Credentials is the login form input
type Credentials struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// TokenPair is what the auth service issues on login
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *session.User
}

// AuthClient talks to the auth service
type AuthClient interface {
	Login(ctx context.Context, caller Caller, credentials Credentials) (*TokenPair, error)
	GetProfile(ctx context.Context, caller Caller) (*session.User, error)
}

// StoreClient talks to the store service. CheckStore fails when no store
// resolves for the caller's host.
type StoreClient interface {
	CheckStore(ctx context.Context, caller Caller) error
}

// ChannelClient talks to the channel service
type ChannelClient interface {
	GetPublications(ctx context.Context, caller Caller) ([]session.Publication, error)
}

// TokenStore is the persisted client storage of one visitor
type TokenStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string)
}

// Revocations tracks access tokens invalidated by logout
type Revocations interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}

// Metrics observes bootstrap runs
type Metrics interface {
	RecordBootstrap(ctx context.Context, outcome string, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordBootstrap(context.Context, string, time.Duration) {}
