package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sweetshop/sweetshop-api/internal/api/handler"
	"github.com/sweetshop/sweetshop-api/internal/api/middleware"
	"github.com/sweetshop/sweetshop-api/internal/auth"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// RouterConfig collects everything the router needs; construction of
// services and repositories happens in the composition root.
type RouterConfig struct {
	Codec        *auth.Codec
	AuthHandler  *handler.AuthHandler
	SweetHandler *handler.SweetHandler
	FileHandler  *handler.FileHandler
	UploadDir    string
	DB           *mongo.Database
	Redis        *redis.Client
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("sweetshop"))
	// The gate binds identity without rejecting; the policy enforces the
	// path-prefix role table before any handler runs.
	e.Use(middleware.Gate(cfg.Codec, cfg.Logger))
	e.Use(middleware.Policy(middleware.DefaultRules()))

	// --- Auth routes ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/register/admin", cfg.AuthHandler.RegisterAdmin)
	apiGroup.POST("/auth/register/user", cfg.AuthHandler.RegisterUser)
	apiGroup.POST("/auth/login/admin", cfg.AuthHandler.LoginAdmin)
	apiGroup.POST("/auth/login/user", cfg.AuthHandler.LoginUser)
	apiGroup.GET("/admin/test", cfg.AuthHandler.AdminTest)
	apiGroup.GET("/user/test", cfg.AuthHandler.UserTest)

	// --- Inventory routes ---
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	apiGroup.GET("/sweets", cfg.SweetHandler.List)
	apiGroup.POST("/sweets/add", cfg.SweetHandler.Add, adminOnly)
	apiGroup.PUT("/sweets/update/:id", cfg.SweetHandler.Update, adminOnly)
	apiGroup.DELETE("/sweets/delete/:id", cfg.SweetHandler.Delete, adminOnly)
	apiGroup.POST("/sweets/purchase/:id", cfg.SweetHandler.Purchase)

	// --- Uploads ---
	apiGroup.POST("/files/upload", cfg.FileHandler.Upload)
	e.Static("/uploads", cfg.UploadDir)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
