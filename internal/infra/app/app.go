// Package app wires configuration, infrastructure, and the HTTP surface into
// a runnable service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/config"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/database"
	kafkainfra "github.com/avanishkumar5035/jobsphere-identity/internal/infra/kafka"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/logger"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/notify"
	redisinfra "github.com/avanishkumar5035/jobsphere-identity/internal/infra/redis"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/security"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/telemetry"
	"github.com/avanishkumar5035/jobsphere-identity/internal/repository/postgres"
	redisrepo "github.com/avanishkumar5035/jobsphere-identity/internal/repository/redis"
	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/handlers"
	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/middleware"
	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/routes"
	"github.com/avanishkumar5035/jobsphere-identity/internal/usecase"
	"github.com/avanishkumar5035/jobsphere-identity/migrations"
)

// Application owns the process-level resources of the identity service.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	tracer *telemetry.TracerProvider
}

// New builds the full application graph from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	if err := runMigrations(ctx, cfg.Postgres); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := security.ConfigureArgon2(security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokenIssuer, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.TokenTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgres.NewRepositories(pool)
	otpStore := redisrepo.NewOTPRepository(redisClient.Client(), cfg.Redis.OTPPrefix)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = 15 * time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	gateway := notify.NewGateway(cfg.SMTP, cfg.SMS, log)

	authService := usecase.NewAuthService(repos.Identities, tokenIssuer)
	registrationService := usecase.NewRegistrationService(repos.Identities, tokenIssuer, eventPublisher, log)
	resetService := usecase.NewPasswordResetService(repos.Identities, otpStore, gateway, tokenIssuer, eventPublisher, cfg.OTP, log)
	mobileService := usecase.NewMobileVerificationService(repos.Identities, otpStore, gateway, eventPublisher, cfg.OTP, log)
	profileService := usecase.NewProfileService(repos.Identities, log)
	adminService := usecase.NewAdminService(repos.Identities, eventPublisher, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	health := handlers.NewHealthHandler(map[string]handlers.DependencyChecker{
		"postgres": pool.Ping,
		"redis":    redisClient.HealthCheck,
	}, log)

	engine := routes.NewRouter(routes.Options{
		Logger:        log,
		Auth:          handlers.NewAuthHandler(registrationService, authService, log),
		Password:      handlers.NewPasswordHandler(resetService, log),
		Mobile:        handlers.NewMobileHandler(mobileService, log),
		Profile:       handlers.NewProfileHandler(profileService, tokenIssuer, log),
		Admin:         handlers.NewAdminHandler(adminService, log),
		Employers:     handlers.NewEmployerHandler(adminService, log),
		Health:        health,
		TokenResolver: authService,
		RateLimiter:   rateLimiter,
		RateLimits:    cfg.RateLimit,
		CORSOrigins:   cfg.CORS.AllowedOrigins,
		Metrics:       metrics,
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		tracer: tracer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer a.pool.Close()
	defer func() {
		_ = a.redis.Close()
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting identity API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr))

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down identity API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}

// runMigrations applies the embedded schema over a short-lived database/sql
// connection; goose cannot drive pgxpool directly.
func runMigrations(ctx context.Context, cfg config.PostgresSettings) error {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
