package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Limon4ik66607/TestCRM/internal/infra/config"
	"github.com/Limon4ik66607/TestCRM/internal/infra/database"
	"github.com/Limon4ik66607/TestCRM/internal/infra/logger"
	"github.com/Limon4ik66607/TestCRM/internal/infra/security"
	postgresrepo "github.com/Limon4ik66607/TestCRM/internal/repository/postgres"
	"github.com/Limon4ik66607/TestCRM/internal/transport/http/middleware"
	"github.com/Limon4ik66607/TestCRM/internal/transport/http/routes"
	"github.com/Limon4ik66607/TestCRM/internal/usecase"
)

// Application bundles the configured HTTP engine and its infrastructure.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
}

// New wires repositories, services, and the HTTP engine.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := database.Migrate(cfg.Postgres.DSN()); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	passwordValidator := security.NewPasswordValidator(
		security.MinLengthRule(cfg.Password.MinLength),
		security.RequireLetterRule(),
		security.RequireDigitRule(),
		security.RequirePasswordStrengthRule(cfg.Password.MinStrengthScore),
	)

	tokenService := usecase.NewTokenService(repos.Identities, cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	auditService := usecase.NewAuditService(repos.Audit, log, cfg.Audit.DefaultListLimit)
	authService := usecase.NewAuthService(repos.Identities, tokenService, auditService, passwordValidator, log)
	staffService := usecase.NewStaffService(repos.Identities, repos.Clients, auditService, passwordValidator, log)
	clientService := usecase.NewClientService(repos.Clients, auditService, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Metrics:  metrics,
		Database: pool,
		Services: routes.ServiceSet{
			Auth:    authService,
			Staff:   staffService,
			Clients: clientService,
			Audit:   auditService,
			Tokens:  tokenService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
	}, nil
}

// Run serves HTTP traffic until the context is cancelled, then drains
// in-flight requests.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
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

	a.logger.Info("starting CRM API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

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

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}
