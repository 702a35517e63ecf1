package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/tenancy"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/dto"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/handler"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/middleware"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/web"
)

// AuthMetrics observes guard decisions and login attempts
type AuthMetrics interface {
	middleware.GuardMetrics
	handler.LoginMetrics
}

// AdminConfig holds the route-level settings of the admin shell
type AdminConfig struct {
	Paths          handler.PagePaths
	Resolver       tenancy.Resolver
	RenderWait     time.Duration
	MaxBodySize    int64
	LoginLimiter   *middleware.RateLimiter // nil disables login throttling
	Security       middleware.SecurityConfig
	Tracing        middleware.TracingConfig
	TrustedProxies []string
	Name           string
	Version        string
}

// DefaultMaxBodySize caps form and JSON submissions when no limit is set
const DefaultMaxBodySize = 64 << 10

func (cfg AdminConfig) withDefaults() AdminConfig {
	if cfg.Paths.Home == "" {
		cfg.Paths.Home = "/"
	}
	if cfg.Paths.Login == "" {
		cfg.Paths.Login = "/login"
	}
	if cfg.Paths.Logout == "" {
		cfg.Paths.Logout = "/logout"
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	return cfg
}

// AdminDeps are the services behind the admin routes
type AdminDeps struct {
	Bootstrapper middleware.Mounter
	Tokens       middleware.TokenStoreFunc
	Auth         handler.Authenticator
	Events       handler.AuthEventReader
	Checks       map[string]handler.Pinger
	Metrics      AuthMetrics  // optional
	Meter        metric.Meter // optional
	Logger       *zap.Logger
}

// NewAdminEngine builds the gin engine of the admin shell: the global
// middleware chain, the guarded pages, the login form and the JSON API.
func NewAdminEngine(cfg AdminConfig, deps AdminDeps) (*gin.Engine, error) {
	cfg = cfg.withDefaults()
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	engine.SetHTMLTemplate(web.MustTemplates())
	middleware.SetupValidator()

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(cfg.Tracing),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.TracingAttributeInjector(),
		middleware.SecureWithConfig(cfg.Security),
		middleware.HTTPMetrics(deps.Meter),
	)

	navigator := middleware.NewNavigator(cfg.RenderWait)
	guardCfg := middleware.GuardConfig{
		Resolver:  cfg.Resolver,
		HomePath:  cfg.Paths.Home,
		LoginPath: cfg.Paths.Login,
		Navigator: navigator,
	}
	var loginMetrics handler.LoginMetrics
	if deps.Metrics != nil {
		guardCfg.Metrics = deps.Metrics
		loginMetrics = deps.Metrics
	}
	apiGuardCfg := guardCfg
	apiGuardCfg.API = true

	mount := middleware.SessionMount(middleware.SessionMountConfig{
		Bootstrapper: deps.Bootstrapper,
		Tokens:       deps.Tokens,
		RenderWait:   cfg.RenderWait,
	})

	pageHandler := handler.NewPageHandler(deps.Auth, deps.Tokens, navigator, loginMetrics, cfg.Paths)
	systemHandler := handler.NewSystemHandler(cfg.Name, cfg.Version, deps.Checks)
	sessionHandler := handler.NewSessionHandler()
	eventHandler := handler.NewAuthEventHandler(deps.Events)

	engine.GET("/health", systemHandler.Health)

	// Pages
	pages := NewDomainGroup("pages", "").Use(middleware.NoStore())
	pages.GET(cfg.Paths.Home, mount, middleware.AuthAreaGuard(guardCfg), pageHandler.Home)
	pages.GET(cfg.Paths.Login, mount, middleware.LoginPageGuard(guardCfg), pageHandler.LoginForm)
	submit := []gin.HandlerFunc{middleware.BodyLimit(cfg.MaxBodySize)}
	if cfg.LoginLimiter != nil {
		submit = append(submit, middleware.RateLimitWithConfig(middleware.RateLimitConfig{
			Limiter:   cfg.LoginLimiter,
			OnLimited: pageHandler.LoginRateLimited,
		}))
	}
	pages.POST(cfg.Paths.Login, append(submit, pageHandler.Login)...)
	pages.POST(cfg.Paths.Logout, middleware.BodyLimit(cfg.MaxBodySize), pageHandler.Logout)

	// API
	system := NewDomainGroup("system", "/system")
	system.GET("/ping", systemHandler.Ping)
	system.GET("/info", systemHandler.GetSystemInfo)

	session := NewDomainGroup("session", "/session").Use(middleware.NoStore(), mount)
	session.GET("", sessionHandler.Get)

	events := NewDomainGroup("auth-events", "/auth-events").
		Use(middleware.NoStore(), mount, middleware.AuthAreaGuard(apiGuardCfg))
	events.GET("", eventHandler.List)

	NewRouter(engine, WithAPIVersion("v1")).
		Mount(pages).
		Register(system).
		Register(session).
		Register(events).
		Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	return engine, nil
}
