package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/telemetry"
)

// GenericLoginFailure is shown when the backend gives no usable message.
const GenericLoginFailure = "Login failed, please try again"

// LoginError is a failed login as it should be presented: a toast message
// and optional per-field messages keyed by form field name.
type LoginError struct {
	Message string
	Fields  map[string]string
	Err     error
}

func (e *LoginError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// PublicMessage is implemented by backend errors that carry a message safe
// to show to the user.
type PublicMessage interface {
	PublicMessage() string
}

// FieldMessages is implemented by backend errors that carry per-field
// validation messages.
type FieldMessages interface {
	FieldMessages() map[string]string
}

// LoginOutput is the state after a successful login
type LoginOutput struct {
	User         *session.User
	Publications []session.Publication
}

// LoginService signs visitors in and out
type LoginService struct {
	auth        AuthClient
	channels    ChannelClient
	revocations Revocations
	events      audit.Repository
	logger      *zap.Logger
}

// NewLoginService creates a LoginService. revocations and events may be nil.
func NewLoginService(
	auth AuthClient,
	channels ChannelClient,
	revocations Revocations,
	events audit.Repository,
	zapLogger *zap.Logger,
) *LoginService {
	return &LoginService{
		auth:        auth,
		channels:    channels,
		revocations: revocations,
		events:      events,
		logger:      zapLogger.Named("login"),
	}
}

// Login submits credentials and loads the publications in parallel. Both
// must succeed; the token pair is then persisted to tokens.
func (s *LoginService) Login(ctx context.Context, host string, tokens TokenStore, credentials Credentials) (*LoginOutput, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "login", telemetry.SpanAttrHost, host)
	defer span.End()

	log := logger.Enrich(ctx, s.logger).With(zap.String("host", host), zap.String("email", credentials.Email))
	caller := Caller{Host: host}

	var (
		pair         *TokenPair
		publications []session.Publication
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.auth.Login(gctx, caller, credentials)
		if err != nil {
			return err
		}
		if p == nil || p.AccessToken == "" {
			return errors.New("auth service returned no access token")
		}
		pair = p
		return nil
	})
	g.Go(func() error {
		p, err := s.channels.GetPublications(gctx, caller)
		if err != nil {
			return fmt.Errorf("get publications: %w", err)
		}
		publications = p
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("Login failed", zap.Error(err))
		telemetry.RecordError(span, err)
		loginErr := toLoginError(err)
		s.record(ctx, audit.KindLoginFailed, host, credentials.Email, "", loginErr.Message)
		return nil, loginErr
	}

	if err := tokens.Set(AccessTokenKey, pair.AccessToken); err != nil {
		return nil, &LoginError{Message: GenericLoginFailure, Err: fmt.Errorf("persist access token: %w", err)}
	}
	if pair.RefreshToken != "" {
		if err := tokens.Set(RefreshTokenKey, pair.RefreshToken); err != nil {
			tokens.Remove(AccessTokenKey)
			return nil, &LoginError{Message: GenericLoginFailure, Err: fmt.Errorf("persist refresh token: %w", err)}
		}
	}

	slug := ""
	if pair.User != nil {
		slug = pair.User.DomainStore
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrStoreSlug, slug, telemetry.SpanAttrPublication, len(publications))
	log.Info("User logged in", zap.String("domain_store", slug))
	s.record(ctx, audit.KindLoginSucceeded, host, credentials.Email, slug, "")

	return &LoginOutput{User: pair.User, Publications: publications}, nil
}

// Logout revokes the current access token and clears the client storage.
// It never fails from the visitor's point of view.
func (s *LoginService) Logout(ctx context.Context, host string, tokens TokenStore) {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "logout", telemetry.SpanAttrHost, host)
	defer span.End()

	log := logger.Enrich(ctx, s.logger).With(zap.String("host", host))

	if token, ok := tokens.Get(AccessTokenKey); ok && s.revocations != nil {
		if err := s.revocations.Revoke(ctx, token); err != nil {
			log.Warn("Failed to revoke access token", zap.Error(err))
		}
	}
	tokens.Remove(AccessTokenKey)
	tokens.Remove(RefreshTokenKey)

	log.Info("User logged out")
	s.record(ctx, audit.KindLogout, host, "", "", "")
}

func (s *LoginService) record(ctx context.Context, kind audit.Kind, host, email, slug, detail string) {
	if s.events == nil {
		return
	}
	event := audit.NewAuthEvent(kind, host)
	event.Email = email
	event.StoreSlug = slug
	event.Detail = detail
	event.RequestID = logger.GetRequestID(ctx)
	if err := s.events.Record(ctx, event); err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to record auth event",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func toLoginError(err error) *LoginError {
	le := &LoginError{Message: GenericLoginFailure, Err: err}

	var pm PublicMessage
	if errors.As(err, &pm) {
		if msg := strings.TrimSpace(pm.PublicMessage()); msg != "" {
			le.Message = msg
		}
	}
	var fm FieldMessages
	if errors.As(err, &fm) {
		le.Fields = fm.FieldMessages()
	}
	return le
}
