package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arsn/dossier-tracking/internal/api/handler"
	"github.com/arsn/dossier-tracking/internal/api/middleware"
	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

// Dependencies are the services and clients the router wires into handlers.
// Mongo and Redis are nil when the matching backend is not configured.
type Dependencies struct {
	Logger    zerolog.Logger
	JWTSecret string

	Auth     ports.AuthService
	Dossiers ports.DossierService
	Catalog  ports.CatalogService
	Users    ports.UserService

	// Accounts re-reads the caller's role on every request. Nil trusts the
	// role carried by the token.
	Accounts middleware.AccountLookup

	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddleware("dossier"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	dossierHandler := handler.NewDossierHandler(deps.Dossiers)
	serviceHandler := handler.NewServiceHandler(deps.Catalog)
	userHandler := handler.NewUserHandler(deps.Users)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret, deps.Accounts), middleware.RequireRole(domain.RoleAgent))

	view := middleware.RequireOperation(domain.OpViewDossiers)

	v1.GET("/me", authHandler.Me)
	v1.GET("/dashboard", dossierHandler.Dashboard, view)
	v1.GET("/observations", dossierHandler.Observations, view)

	v1.GET("/dossiers", dossierHandler.List, view)
	v1.POST("/dossiers", dossierHandler.Create, middleware.RequireOperation(domain.OpCreateDossier))
	v1.GET("/dossiers/:id", dossierHandler.Get, view)
	v1.PATCH("/dossiers/:id", dossierHandler.Update, middleware.RequireOperation(domain.OpEditDossier))
	v1.DELETE("/dossiers/:id", dossierHandler.Delete, middleware.RequireOperation(domain.OpDeleteDossier))

	manageServices := middleware.RequireOperation(domain.OpManageServices)
	v1.GET("/services", serviceHandler.List, view)
	v1.GET("/services/:id", serviceHandler.Get, view)
	v1.POST("/services", serviceHandler.Create, manageServices)
	v1.PUT("/services/:id", serviceHandler.Update, manageServices)
	v1.DELETE("/services/:id", serviceHandler.Delete, manageServices)

	// Users may read their own account; the service enforces the rest.
	manageUsers := middleware.RequireOperation(domain.OpManageUsers)
	v1.GET("/users", userHandler.List, manageUsers)
	v1.GET("/users/:id", userHandler.Get)
	v1.POST("/users", userHandler.Create, manageUsers)
	v1.PUT("/users/:id", userHandler.Update, manageUsers)
	v1.DELETE("/users/:id", userHandler.Delete, manageUsers)

	return e
}

// requestLogger feeds echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
