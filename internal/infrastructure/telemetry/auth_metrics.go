package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// AuthMetrics records session bootstrap, guard and login activity
type AuthMetrics struct {
	bootstrapDuration *Histogram
	guardDecisions    *Counter
	loginAttempts     *Counter
}

// NewAuthMetrics registers the auth instruments on meter
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	bootstrap, err := NewHistogram(meter, HistogramOpts{
		Name:        "admin.session.bootstrap.duration",
		Description: "Time from mount until the session settles",
		Unit:        "s",
		Boundaries:  UpstreamDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	decisions, err := NewCounter(meter, "admin.guard.decisions", "Route guard decisions", "{decision}")
	if err != nil {
		return nil, err
	}
	logins, err := NewCounter(meter, "admin.login.attempts", "Login form submissions", "{attempt}")
	if err != nil {
		return nil, err
	}

	return &AuthMetrics{
		bootstrapDuration: bootstrap,
		guardDecisions:    decisions,
		loginAttempts:     logins,
	}, nil
}

// RecordBootstrap records one settled bootstrap
func (m *AuthMetrics) RecordBootstrap(ctx context.Context, outcome string, elapsed time.Duration) {
	m.bootstrapDuration.RecordDuration(ctx, elapsed, AttrOutcome.String(outcome))
}

// RecordGuardDecision counts one guard evaluation
func (m *AuthMetrics) RecordGuardDecision(ctx context.Context, guard, outcome, target string) {
	m.guardDecisions.Inc(ctx, AttrGuard.String(guard), AttrOutcome.String(outcome), AttrTarget.String(target))
}

// RecordLogin counts one login attempt by outcome
func (m *AuthMetrics) RecordLogin(ctx context.Context, outcome string) {
	m.loginAttempts.Inc(ctx, AttrOutcome.String(outcome))
}
