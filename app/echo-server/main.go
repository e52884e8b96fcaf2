package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopBackend/app/echo-server/router"
	"shopBackend/business/address"
	"shopBackend/business/product"
	userService "shopBackend/business/user"
	"shopBackend/internal/middleware"
	mongoRepo "shopBackend/internal/repository/mongo"
	"shopBackend/internal/repository/notification"
	psqlRepo "shopBackend/internal/repository/postgres"
	redisRepo "shopBackend/internal/repository/redis"
	"shopBackend/internal/rest"
	"shopBackend/pkg/config"
	"shopBackend/pkg/database"
	redisdb "shopBackend/pkg/database/redis"
	"shopBackend/pkg/logger"
	"shopBackend/pkg/metrics"
	"shopBackend/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	mongoClient, productColl, err := database.InitMongo(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to mongo", "error", err)
	}
	logger.Info("Mongo connected successfully", "collection", cfg.Mongo.Collection)

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	logger.Info("Redis connected successfully")

	// Init notification from mailjet
	var mailer userService.NotificationRepository
	if cfg.Mailjet.Enabled() {
		mailer = notification.NewMailjetRepository(
			notification.MailjetConfig{
				MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
				MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
				MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
				MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
				MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
			},
		)
	} else {
		logger.Warn("Mailjet not configured, welcome mails disabled")
	}

	// Init validate
	validate := validator.New()

	// Init repo
	repos := userService.Repositories{
		Users:         psqlRepo.NewUserRepository(db),
		Roles:         psqlRepo.NewRoleRepository(db),
		Addresses:     psqlRepo.NewAddressRepository(db),
		UserAddresses: psqlRepo.NewUserAddressRepository(db),
		CreditCards:   psqlRepo.NewCreditCardRepository(db),
	}
	transactor := psqlRepo.NewTransactor(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient)
	productRepo := mongoRepo.NewProductRepository(productColl)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TTL)
	cardCipher := utils.NewCardCipher(cfg.Card.EncryptionKey)

	// Init service
	userSvc := userService.NewUserService(repos, transactor, jwtManager, sessionRepo, cardCipher, mailer, validate)
	addressSvc := address.NewAddressService(repos.Addresses, repos.UserAddresses, transactor)
	productSvc := product.NewProductService(productRepo)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	addressHandler := rest.NewAddressHandler(addressSvc, userSvc)
	productHandler := rest.NewProductHandler(productSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.RequestTimeout
	e.Server.WriteTimeout = cfg.Server.RequestTimeout + 5*time.Second

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	metrics.Init()

	// Global middleware
	router.SetupGlobalMiddleware(e, cfg.Server.AllowOrigins)

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(jwtManager, sessionRepo)

	// Setup routes
	api := e.Group("/api")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupAddressRoutes(api, addressHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired)
	router.SetupMetricsRoutes(e)

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

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Close stores
	var g errgroup.Group
	g.Go(func() error { return redisdb.CloseRedisClient(redisClient) })
	g.Go(func() error { return database.CloseMongo(ctx, mongoClient) })
	g.Go(func() error { return database.ClosePostgres(db) })
	if err := g.Wait(); err != nil {
		logger.Error("Store close error", "error", err)
	}

	logger.Info("Server stopped")
}
