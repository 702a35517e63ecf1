package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	sessionapp "github.com/nhom-do-an/ocm-admin-sub002/internal/application/session"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/tenancy"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/auth"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/clientstore"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/config"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/logger"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/persistence"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/telemetry"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/infrastructure/upstream"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/handler"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/middleware"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// OTEL logs are teed into the main logger once the provider exists
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting OCM admin",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	authMetrics, err := telemetry.NewAuthMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register auth metrics", zap.Error(err))
	}

	// Auth event store
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled
	dbTracing.DBSystem = db.Driver()
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver()))
	events := persistence.NewGormAuthEventRepository(db.DB)

	checks := map[string]handler.Pinger{"database": db}

	// Token revocation: Redis when enabled, otherwise process memory
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		redisClient, err := auth.NewRedisClient(ctx, auth.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	revocations := auth.NewRevocations(blacklist)

	backend, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create backend client", zap.Error(err))
	}

	sealer, err := clientstore.NewSealer(cfg.Cookie.SealKey)
	if err != nil {
		log.Fatal("Invalid cookie seal key", zap.Error(err))
	}
	jar := clientstore.NewJar(clientstore.CookieConfig{
		Domain:   cfg.Cookie.Domain,
		Path:     cfg.Cookie.Path,
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
		MaxAge:   cfg.Cookie.MaxAge,
	}, sealer)
	tokens := func(w http.ResponseWriter, r *http.Request) sessionapp.TokenStore {
		return jar.For(w, r)
	}

	bootstrapper := sessionapp.NewBootstrapper(backend, backend, backend,
		sessionapp.BootstrapConfig{Timeout: cfg.Bootstrap.Timeout},
		log,
		sessionapp.WithRevocations(revocations),
		sessionapp.WithEventLog(events),
		sessionapp.WithMetrics(authMetrics),
	)
	loginService := sessionapp.NewLoginService(backend, backend, revocations, events, log)

	var loginLimiter *middleware.RateLimiter
	if cfg.HTTP.LoginRateLimitEnabled {
		loginLimiter = middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitBurst, cfg.HTTP.LoginRateLimitWindow)
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction() && cfg.Cookie.Secure

	engine, err := router.NewAdminEngine(router.AdminConfig{
		Paths: handler.PagePaths{
			Home:  cfg.Tenancy.HomePath,
			Login: cfg.Tenancy.LoginPath,
		},
		Resolver: tenancy.Resolver{
			RootDomain:         cfg.Tenancy.RootDomain,
			RegistrationDomain: cfg.Tenancy.RegistrationDomain,
			LoginPath:          cfg.Tenancy.LoginPath,
			RegisterPath:       cfg.Tenancy.RegisterPath,
			ForceHTTPS:         cfg.Tenancy.ForceHTTPS,
		},
		RenderWait:   cfg.Bootstrap.RenderWait,
		MaxBodySize:  cfg.HTTP.MaxBodySize,
		LoginLimiter: loginLimiter,
		Security:     security,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Name:           cfg.App.Name,
		Version:        version,
	}, router.AdminDeps{
		Bootstrapper: bootstrapper,
		Tokens:       tokens,
		Auth:         loginService,
		Events:       sessionapp.NewEventQuery(events),
		Checks:       checks,
		Metrics:      authMetrics,
		Meter:        meter,
		Logger:       log,
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
