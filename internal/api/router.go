package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/ccontapub/accounts-api/docs"
	"github.com/ccontapub/accounts-api/internal/api/handler"
	"github.com/ccontapub/accounts-api/internal/api/middleware"
	"github.com/ccontapub/accounts-api/internal/core/ports"
	"github.com/ccontapub/accounts-api/internal/infrastructure/security"
)

// Deps carries everything the router needs; construction of services
// happens in cmd/api so the dispatcher lifecycle stays in main's hands.
type Deps struct {
	AuthService ports.AuthService
	Sessions    *security.SessionSigner
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	sessionMiddleware := middleware.Session(d.Sessions)

	auth := e.Group("/api/v1/auth")
	auth.POST("/create-account", authHandler.CreateAccount)
	auth.POST("/confirm-account", authHandler.ConfirmAccount)
	auth.POST("/login", authHandler.Login)
	auth.POST("/request-code", authHandler.RequestCode)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/validate-token", authHandler.ValidateToken)
	auth.POST("/update-password/:token", authHandler.UpdatePassword)
	auth.GET("/user", authHandler.User, sessionMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
