package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/app/echo-server/router"
	"storefront/business/address"
	"storefront/business/auth"
	"storefront/business/cart"
	"storefront/business/checkout"
	"storefront/business/coupon"
	"storefront/business/orders"
	"storefront/business/product"
	userService "storefront/business/user"
	"storefront/internal/middleware"
	"storefront/internal/repository/guard"
	"storefront/internal/repository/notification"
	"storefront/internal/repository/paypal"
	psqlRepo "storefront/internal/repository/postgres"
	redisRepo "storefront/internal/repository/redis"
	"storefront/internal/repository/storage"
	"storefront/internal/rest"
	"storefront/pkg/config"
	"storefront/pkg/database"
	redisClient "storefront/pkg/database/redis"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting storefront", "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	rdb, err := redisClient.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisClient.CloseRedisClient(rdb); err != nil {
			logger.Error("Failed to close Redis", "error", err)
		}
	}()

	images, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to init image storage", "driver", cfg.Storage.Driver, "error", err)
	}

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	paypalRepo := paypal.NewPayPalRepository(
		paypal.PayPalConfig{
			ClientID:     cfg.PayPal.ClientID,
			ClientSecret: cfg.PayPal.ClientSecret,
			BaseURL:      cfg.PayPal.BaseURL,
			Currency:     cfg.PayPal.Currency,
		},
	)

	// Init validate
	validate := validator.New()

	var lookupMX guard.MXLookupFunc
	if !cfg.Guard.SkipMXLookup {
		lookupMX = net.DefaultResolver.LookupMX
	}
	abuseGuard := guard.New(guard.DefaultRules(cfg.Guard.BlockFreeEmail), validate, lookupMX)

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	couponRepo := psqlRepo.NewCouponRepository(db)
	addressRepo := psqlRepo.NewAddressRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(rdb)
	sessionRepo := redisRepo.NewCheckoutSessionRepository(rdb)

	// Init service
	tokenService := auth.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, tokenRepo, userRepo)
	userService := userService.NewUserService(userRepo, validate)
	productService := product.NewProductService(productRepo, images, validate, storage.ProductImageKey)
	couponService := coupon.NewCouponService(couponRepo, validate)
	addressService := address.NewAddressService(addressRepo, validate)
	cartService := cart.NewCartService(cartRepo, productRepo)
	ordersService := orders.NewOrdersService(ordersRepo)
	checkoutService := checkout.NewCheckoutService(
		cartRepo,
		addressRepo,
		couponService,
		abuseGuard,
		paypalRepo,
		sessionRepo,
		ordersRepo,
		mailjetEmail,
	)

	// Init handler
	userHandler := rest.NewUserHandler(userService, tokenService, abuseGuard, validate, cfg.IsProduction())
	productHandler := rest.NewProductHandler(productService, abuseGuard)
	couponHandler := rest.NewCouponHandler(couponService, abuseGuard)
	addressHandler := rest.NewAddressHandler(addressService)
	cartHandler := rest.NewCartHandler(cartService)
	checkoutHandler := rest.NewCheckoutHandler(checkoutService)
	ordersHandler := rest.NewOrdersHandler(ordersService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.BodyLimit("30M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if local, ok := images.(*storage.LocalStore); ok {
		e.Static(cfg.Storage.LocalURL, local.Root())
	}

	// Setup routes
	routes := middleware.NewRouteTable()
	gate := middleware.NewAuthGate(tokenService, routes, cfg.IsProduction(), cfg.App.ClientURL+cfg.App.LoginPath)
	api := router.New(e, routes, gate.Middleware())
	router.SetupAuthRoutes(api, userHandler)
	router.SetupProductRoutes(api, productHandler)
	router.SetupCouponRoutes(api, couponHandler)
	router.SetupAddressRoutes(api, addressHandler)
	router.SetupCartRoutes(api, cartHandler)
	router.SetupCheckoutRoutes(api, checkoutHandler)
	router.SetupOrderRoutes(api, ordersHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
