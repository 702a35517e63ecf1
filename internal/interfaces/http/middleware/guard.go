package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/tenancy"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/dto"
)

// Guard names reported in logs and metrics
const (
	GuardAuthArea  = "auth_area"
	GuardLoginPage = "login_page"
)

// GuardMetrics observes guard decisions
type GuardMetrics interface {
	RecordGuardDecision(ctx context.Context, guard, outcome, target string)
}

// GuardConfig configures a route guard
type GuardConfig struct {
	Resolver  tenancy.Resolver
	HomePath  string
	LoginPath string
	Navigator *Navigator
	Metrics   GuardMetrics // optional
	// API answers with status codes and the JSON envelope instead of
	// navigating. Used for guarded /api routes.
	API bool
}

// AuthAreaGuard lets only a signed-in user on an existing store through.
func AuthAreaGuard(cfg GuardConfig) gin.HandlerFunc {
	return guard(GuardAuthArea, session.DecideAuthArea, cfg)
}

// LoginPageGuard lets only an anonymous visitor on an existing store through.
func LoginPageGuard(cfg GuardConfig) gin.HandlerFunc {
	return guard(GuardLoginPage, session.DecideLoginPage, cfg)
}

func guard(name string, decide func(session.Snapshot) session.Decision, cfg GuardConfig) gin.HandlerFunc {
	if cfg.Navigator == nil {
		cfg.Navigator = NewNavigator(0)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		d := decide(GetSnapshot(c))

		if cfg.Metrics != nil {
			cfg.Metrics.RecordGuardDecision(ctx, name, d.Outcome.String(), d.Target.String())
		}
		logger.L(ctx).Debug("Guard decision",
			zap.String("guard", name),
			zap.Stringer("outcome", d.Outcome),
			zap.Stringer("target", d.Target),
			zap.String("host_slug", cfg.Resolver.Slug(c.Request.Host)),
		)

		if cfg.API && d.Outcome != session.OutcomeRender {
			denyAPI(c, d)
			return
		}

		switch d.Outcome {
		case session.OutcomeRender:
			c.Next()
		case session.OutcomeLoading:
			cfg.Navigator.Loading(c)
		case session.OutcomeSoftRedirect:
			cfg.Navigator.SoftRedirect(c, cfg.pathFor(d.Target))
		case session.OutcomeHardRedirect:
			cfg.Navigator.HardRedirect(c, cfg.urlFor(c.Request.Host, d))
		}
	}
}

func (cfg GuardConfig) pathFor(t session.Target) string {
	switch t {
	case session.TargetLogin:
		return cfg.LoginPath
	default:
		return cfg.HomePath
	}
}

func (cfg GuardConfig) urlFor(host string, d session.Decision) string {
	if d.Target == session.TargetTenantLogin {
		return cfg.Resolver.TenantLoginURL(host, d.Slug)
	}
	return cfg.Resolver.RegistrationURL(host)
}

func denyAPI(c *gin.Context, d session.Decision) {
	requestID := GetRequestID(c)
	switch {
	case d.Outcome == session.OutcomeLoading:
		c.AbortWithStatusJSON(http.StatusAccepted, dto.NavigationResponse{Loading: true})
	case d.Target == session.TargetRegistration:
		c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeStoreNotFound, "No store is registered for this host", requestID))
	default:
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeUnauthorized, "Sign in to continue", requestID))
	}
}
