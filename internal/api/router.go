package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/vehinfo/rc-backend/docs"
	"github.com/vehinfo/rc-backend/internal/api/handler"
	"github.com/vehinfo/rc-backend/internal/api/middleware"
	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
	"github.com/vehinfo/rc-backend/internal/core/service"
	mongorepo "github.com/vehinfo/rc-backend/internal/infrastructure/db/mongo"
	redisinfra "github.com/vehinfo/rc-backend/internal/infrastructure/db/redis"
	"github.com/vehinfo/rc-backend/internal/infrastructure/gateway/cashfree"
	"github.com/vehinfo/rc-backend/internal/infrastructure/provider/digitap"
	"github.com/vehinfo/rc-backend/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The hit writer is constructed by the caller so its lifecycle (start, drain)
// stays with main.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	hits service.HitRecorder,
	hitRepo ports.HitLogRepository,
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
	e.Use(echoprometheus.NewMiddleware("vehinfo"))

	// --- Repositories ---
	authRepo := mongorepo.NewAuthRepository(db)
	balanceRepo := mongorepo.NewBalanceRepository(db)
	txRepo := mongorepo.NewTransactionRepository(db)

	// --- Infrastructure adapters ---
	dedup := redisinfra.NewWebhookDedup(rdb)
	balanceCache := redisinfra.NewBalanceCache(rdb)
	gateway := cashfree.NewClient(cashfree.Config{
		APIURL:     cfg.Cashfree.APIURL,
		AppID:      cfg.Cashfree.AppID,
		SecretKey:  cfg.Cashfree.SecretKey,
		WebhookURL: cfg.Cashfree.WebhookURL,
		ReturnURL:  cfg.Cashfree.ReturnURL,
	}, log)
	provider := digitap.NewClient(digitap.Config{
		BaseURL:      cfg.Digitap.BaseURL,
		ClientID:     cfg.Digitap.ClientID,
		ClientSecret: cfg.Digitap.ClientSecret,
	}, log)

	pricing := domain.PriceTable{
		domain.ServiceRC:      cfg.Pricing.RC,
		domain.ServiceChassis: cfg.Pricing.Chassis,
	}

	// --- Services ---
	authService := service.NewAuthService(authRepo, balanceRepo, cfg.JWTSecret, time.Hour)
	balanceService := service.NewBalanceService(balanceRepo, balanceCache, pricing, log)
	paymentService := service.NewPaymentService(gateway, txRepo, balanceRepo, authRepo, dedup, log)
	vehicleService := service.NewVehicleService(provider, balanceService, hits, hitRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	balanceHandler := handler.NewBalanceHandler(balanceService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/role", authHandler.Role, authMiddleware)

	// --- Webhook (gateway-signed, no bearer auth) ---
	e.POST("/payments/webhook", paymentHandler.Webhook)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMiddleware)

	v1.GET("/users/search", authHandler.SearchUsers, adminOnly)

	v1.POST("/payments/orders", paymentHandler.CreateOrder)
	v1.POST("/payments/verify", paymentHandler.Verify)
	v1.GET("/payments/transactions", paymentHandler.Transactions)

	v1.GET("/balance", balanceHandler.Get)
	v1.POST("/balance/deduct", balanceHandler.Deduct)
	v1.POST("/balance/allocate", balanceHandler.Allocate, adminOnly)
	v1.POST("/balance/add", balanceHandler.Add, adminOnly)

	v1.POST("/vehicle/rc", vehicleHandler.LookupRC)
	v1.POST("/vehicle/chassis", vehicleHandler.LookupChassis)
	v1.GET("/usage", vehicleHandler.Usage)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
