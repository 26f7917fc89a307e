package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/UsagiiTsukino/medchain-api/internal/api/handler"
	"github.com/UsagiiTsukino/medchain-api/internal/api/middleware"
	"github.com/UsagiiTsukino/medchain-api/internal/core/service"
	"github.com/UsagiiTsukino/medchain-api/internal/infrastructure/config"
	mongodb "github.com/UsagiiTsukino/medchain-api/internal/infrastructure/db/mongo"
	redisdb "github.com/UsagiiTsukino/medchain-api/internal/infrastructure/db/redis"
	"github.com/UsagiiTsukino/medchain-api/internal/infrastructure/google"
	"github.com/UsagiiTsukino/medchain-api/internal/notify"
	"github.com/UsagiiTsukino/medchain-api/internal/rates"
	"github.com/UsagiiTsukino/medchain-api/internal/session"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	cfg *config.Config,
	ratesSvc *rates.Service,
	hub *notify.Hub,
	notifier *notify.Service,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("medchain"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	vaccineRepo := mongodb.NewVaccineRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)
	resolver := session.NewResolver(sessionStore, cfg.JWTSecret, log)
	verifier := google.NewVerifier(cfg.Google.TokeninfoURL)

	authService := service.NewAuthService(userRepo, sessionStore, verifier, cfg.JWTSecret, cfg.TokenTTL, log)
	vaccineService := service.NewVaccineService(vaccineRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	vaccineHandler := handler.NewVaccineHandler(vaccineService, log)
	userHandler := handler.NewUserHandler(userRepo)
	ratesHandler := handler.NewRatesHandler(ratesSvc)
	notifyHandler := handler.NewNotifyHandler(hub, notifier, log)

	timeout := cfg.SessionResolveTimeout
	authGuard := middleware.Guard(resolver, "auth", nil, timeout)
	adminGuard := middleware.Guard(resolver, "admin", middleware.AdminOnly, timeout)
	staffGuard := middleware.Guard(resolver, "staff", middleware.StaffOnly, timeout)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/login/google", authHandler.LoginGoogle)
	e.POST("/auth/logout", authHandler.Logout, authGuard)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", authGuard)
	v1.GET("/me", authHandler.Me)
	v1.GET("/vaccines", vaccineHandler.List)
	v1.GET("/vaccines/:id", vaccineHandler.Get)

	// --- Public rate routes ---
	e.GET("/v1/rates", ratesHandler.Get)
	e.GET("/v1/rates/convert", ratesHandler.Convert)

	// --- Admin routes ---
	admin := e.Group("/admin", adminGuard)
	admin.GET("/users", userHandler.List)
	admin.POST("/vaccines", vaccineHandler.Create)
	admin.PUT("/vaccines/:id", vaccineHandler.Update)
	admin.DELETE("/vaccines/:id", vaccineHandler.Delete)

	// --- Staff routes ---
	staff := e.Group("/staff", staffGuard)
	staff.GET("/patients", userHandler.ListPatients)
	staff.POST("/notifications", notifyHandler.Publish)

	// --- Notification channel (identity is established in-band) ---
	e.GET("/ws/notifications", notifyHandler.Serve)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
