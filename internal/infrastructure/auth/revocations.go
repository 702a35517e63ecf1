package auth

import (
	"context"
	"time"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
)

// DefaultRevocationTTL bounds revocations of tokens without an exp claim
const DefaultRevocationTTL = 24 * time.Hour

// Revocations adapts a TokenBlacklist to raw access tokens
type Revocations struct {
	blacklist TokenBlacklist
	now       func() time.Time
}

var _ session.Revocations = (*Revocations)(nil)

// NewRevocations creates Revocations over blacklist
func NewRevocations(blacklist TokenBlacklist) *Revocations {
	return &Revocations{blacklist: blacklist, now: time.Now}
}

// inspect falls back to an opaque key for tokens that are not JWTs
func inspect(token string) *TokenInfo {
	info, err := InspectToken(token)
	if err != nil {
		return &TokenInfo{Key: tokenHash(token)}
	}
	return info
}

// IsRevoked reports whether token was revoked
func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	return r.blacklist.IsBlacklisted(ctx, inspect(token).Key)
}

// Revoke blacklists token until it expires. Expired tokens need no entry.
func (r *Revocations) Revoke(ctx context.Context, token string) error {
	info := inspect(token)
	ttl := info.RemainingTTL(r.now(), DefaultRevocationTTL)
	if ttl <= 0 {
		return nil
	}
	return r.blacklist.AddToBlacklist(ctx, info.Key, ttl)
}
