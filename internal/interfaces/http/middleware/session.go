package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	sessionapp "github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
)

const (
	sessionKey = "admin_session"
	tokensKey  = "admin_tokens"
)

// Mounter starts the session bootstrap of a mount
type Mounter interface {
	Start(ctx context.Context, m sessionapp.Mount) *session.Session
}

// TokenStoreFunc opens the visitor's client storage on a request
type TokenStoreFunc func(w http.ResponseWriter, r *http.Request) sessionapp.TokenStore

// SessionMountConfig configures SessionMount
type SessionMountConfig struct {
	Bootstrapper Mounter
	Tokens       TokenStoreFunc
	// RenderWait bounds how long the request waits for the bootstrap before
	// the guards see a loading session. Zero waits until it settles.
	RenderWait time.Duration
}

// SessionMount treats each request as one mount: it starts the bootstrap,
// waits up to RenderWait for it to settle and unmounts the session when the
// request ends.
func SessionMount(cfg SessionMountConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokens := cfg.Tokens(c.Writer, c.Request)
		s := cfg.Bootstrapper.Start(c.Request.Context(), sessionapp.Mount{
			Host:   c.Request.Host,
			Tokens: tokens,
		})
		defer s.Unmount()

		awaitSettle(c.Request.Context(), s, cfg.RenderWait)

		c.Set(sessionKey, s)
		c.Set(tokensKey, tokens)
		if user := s.Snapshot().User; user != nil {
			c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), strconv.FormatInt(user.ID, 10)))
		}

		c.Next()
	}
}

func awaitSettle(ctx context.Context, s *session.Session, wait time.Duration) {
	if wait <= 0 {
		select {
		case <-s.Done():
		case <-ctx.Done():
		}
		return
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-s.Done():
	case <-timer.C:
	case <-ctx.Done():
	}
}

// GetSession returns the session mounted for the request, or nil
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// GetSnapshot returns the snapshot of the mounted session. Without a mount
// the visitor is seen as still loading.
func GetSnapshot(c *gin.Context) session.Snapshot {
	if s := GetSession(c); s != nil {
		return s.Snapshot()
	}
	return session.Snapshot{Loading: true}
}

// GetTokens returns the client storage opened by SessionMount, or nil
func GetTokens(c *gin.Context) sessionapp.TokenStore {
	if v, ok := c.Get(tokensKey); ok {
		if t, ok := v.(sessionapp.TokenStore); ok {
			return t
		}
	}
	return nil
}
