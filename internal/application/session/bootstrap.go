package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/telemetry"
)

// Bootstrap outcomes reported to Metrics
const (
	OutcomeAuthenticated = "authenticated"
	OutcomeAnonymous     = "anonymous"
	OutcomeStoreMissing  = "store_missing"
	OutcomeFailed        = "failed"
)

// ErrNoProfile is returned when the auth service answers without a user.
var ErrNoProfile = errors.New("auth service returned an empty profile")

// BootstrapConfig configures the bootstrap
type BootstrapConfig struct {
	// Timeout bounds the whole bootstrap. Zero waits on the backend forever.
	Timeout time.Duration
}

// Mount describes one page mount: the host it is served on and the
// visitor's client storage.
type Mount struct {
	Host   string
	Tokens TokenStore
}

// Bootstrapper establishes the session of a mount
type Bootstrapper struct {
	auth        AuthClient
	stores      StoreClient
	channels    ChannelClient
	revocations Revocations
	events      audit.Repository
	metrics     Metrics
	config      BootstrapConfig
	logger      *zap.Logger
}

// BootstrapperOption customizes a Bootstrapper
type BootstrapperOption func(*Bootstrapper)

// WithRevocations makes the bootstrap ignore revoked access tokens
func WithRevocations(r Revocations) BootstrapperOption {
	return func(b *Bootstrapper) { b.revocations = r }
}

// WithEventLog records failed bootstraps
func WithEventLog(events audit.Repository) BootstrapperOption {
	return func(b *Bootstrapper) { b.events = events }
}

// WithMetrics reports bootstrap outcomes and durations
func WithMetrics(m Metrics) BootstrapperOption {
	return func(b *Bootstrapper) {
		if m != nil {
			b.metrics = m
		}
	}
}

// NewBootstrapper creates a Bootstrapper
func NewBootstrapper(
	auth AuthClient,
	stores StoreClient,
	channels ChannelClient,
	config BootstrapConfig,
	zapLogger *zap.Logger,
	opts ...BootstrapperOption,
) *Bootstrapper {
	b := &Bootstrapper{
		auth:     auth,
		stores:   stores,
		channels: channels,
		metrics:  noopMetrics{},
		config:   config,
		logger:   zapLogger.Named("bootstrap"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start reads the access token and launches the bootstrap in the
// background. The returned session is loading until the bootstrap settles
// it, which happens exactly once on every path. Cancelling ctx does not stop
// the bootstrap; only the configured timeout does.
func (b *Bootstrapper) Start(ctx context.Context, m Mount) *session.Session {
	s := session.New()

	token := ""
	if m.Tokens != nil {
		token, _ = m.Tokens.Get(AccessTokenKey)
	}

	go b.run(context.WithoutCancel(ctx), s, m.Host, token)
	return s
}

// Bootstrap runs the bootstrap and waits until it settles or ctx is done.
func (b *Bootstrapper) Bootstrap(ctx context.Context, m Mount) *session.Session {
	s := b.Start(ctx, m)
	select {
	case <-s.Done():
	case <-ctx.Done():
	}
	return s
}

func (b *Bootstrapper) run(ctx context.Context, s *session.Session, host, token string) {
	if b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "session", "bootstrap",
		telemetry.SpanAttrHost, host,
		telemetry.SpanAttrHasToken, token != "",
	)
	defer span.End()

	outcome := OutcomeFailed
	defer func() {
		if r := recover(); r != nil {
			b.fail(ctx, host, fmt.Errorf("bootstrap panic: %v", r))
		}
		// Settling is idempotent; this is the path that ends loading when
		// nothing above did.
		s.Fail()
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, outcome)
		b.metrics.RecordBootstrap(ctx, outcome, s.Elapsed())
	}()

	if token != "" && b.isRevoked(ctx, token) {
		token = ""
	}

	caller := Caller{Host: host, AccessToken: token}
	if token == "" {
		if err := b.stores.CheckStore(ctx, caller); err != nil {
			b.fail(ctx, host, fmt.Errorf("check store: %w", err))
			return
		}
		s.Settle(nil, true, nil)
		outcome = OutcomeAnonymous
		return
	}

	user, publications, storeErr, err := b.fetchAll(ctx, caller)
	if err != nil {
		b.fail(ctx, host, err)
		return
	}
	if storeErr != nil {
		// known visitor on a host without a store
		b.fail(ctx, host, storeErr)
		s.Settle(user, false, nil)
		outcome = OutcomeStoreMissing
		telemetry.SetAttributes(span, telemetry.SpanAttrStoreSlug, user.DomainStore)
		return
	}
	s.Settle(user, true, publications)
	outcome = OutcomeAuthenticated
	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, user.ID,
		telemetry.SpanAttrStoreSlug, user.DomainStore,
		telemetry.SpanAttrPublication, len(publications),
	)

	logger.Enrich(ctx, b.logger).Debug("Session established",
		zap.String("host", host),
		zap.Int64("user_id", user.ID),
		zap.String("domain_store", user.DomainStore),
		zap.Int("publications", len(publications)),
	)
}

// fetchAll loads profile, store and publications concurrently. A profile or
// publications failure fails the whole join and is returned as err. A store
// check failure does not cancel the other calls and is returned as storeErr.
func (b *Bootstrapper) fetchAll(ctx context.Context, caller Caller) (
	user *session.User,
	publications []session.Publication,
	storeErr error,
	err error,
) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(func() error {
		u, err := b.auth.GetProfile(gctx, caller)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		if u == nil {
			return ErrNoProfile
		}
		user = u
		return nil
	}))
	g.Go(func() error {
		storeErr = recovered(func() error {
			if err := b.stores.CheckStore(gctx, caller); err != nil {
				return fmt.Errorf("check store: %w", err)
			}
			return nil
		})()
		return nil
	})
	g.Go(recovered(func() error {
		p, err := b.channels.GetPublications(gctx, caller)
		if err != nil {
			return fmt.Errorf("get publications: %w", err)
		}
		publications = p
		return nil
	}))

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return user, publications, storeErr, nil
}

// recovered turns a panic in fn into an error so it fails the join instead
// of the process.
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}
}

func (b *Bootstrapper) isRevoked(ctx context.Context, token string) bool {
	if b.revocations == nil {
		return false
	}
	revoked, err := b.revocations.IsRevoked(ctx, token)
	if err != nil {
		logger.Enrich(ctx, b.logger).Warn("Revocation check failed, trusting token", zap.Error(err))
		return false
	}
	return revoked
}

func (b *Bootstrapper) fail(ctx context.Context, host string, err error) {
	telemetry.RecordError(trace.SpanFromContext(ctx), err)
	logger.Enrich(ctx, b.logger).Warn("Session bootstrap failed",
		zap.String("host", host),
		zap.Error(err),
	)

	if b.events == nil {
		return
	}
	event := audit.NewAuthEvent(audit.KindBootstrapFailed, host)
	event.RequestID = logger.GetRequestID(ctx)
	event.Detail = err.Error()
	// The timeout may already have fired; the log entry must still be written.
	if recErr := b.events.Record(context.WithoutCancel(ctx), event); recErr != nil {
		logger.Enrich(ctx, b.logger).Error("Failed to record auth event", zap.Error(recErr))
	}
}
