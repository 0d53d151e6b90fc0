package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Limon4ik66607/TestCRM/internal/infra/config"
	"github.com/Limon4ik66607/TestCRM/internal/transport/http/handlers"
	"github.com/Limon4ik66607/TestCRM/internal/transport/http/middleware"
	"github.com/Limon4ik66607/TestCRM/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth    *usecase.AuthService
	Staff   *usecase.StaffService
	Clients *usecase.ClientService
	Audit   *usecase.AuditService
	Tokens  *usecase.TokenService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Metrics  *middleware.HTTPMetrics
	Database DatabaseChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Tokens)

	healthOptions := make([]handlers.HealthOption, 0, 1)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Audit)
		authGroup := api.Group("/auth")
		authHandler.RegisterRoutes(authGroup)
		authGroup.POST("/logout", authMiddleware, authHandler.Logout)

		api.GET("/users/me", authMiddleware, authHandler.Me)

		clientHandler := handlers.NewClientHandler(deps.Services.Clients)
		clientGroup := api.Group("/clients")
		clientGroup.Use(authMiddleware)
		clientHandler.RegisterRoutes(clientGroup)

		staffHandler := handlers.NewStaffHandler(deps.Services.Staff, deps.Services.Audit)

		// Bootstrap must work before any account exists, so it sits
		// outside the authenticated admin group.
		api.POST("/admin/initialize", staffHandler.Bootstrap)

		adminGroup := api.Group("/admin")
		adminGroup.Use(authMiddleware, middleware.RequireAdmin())
		staffHandler.RegisterRoutes(adminGroup)
	}

	return r
}
