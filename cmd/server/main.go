package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanzla-outlet/outlet-backend/config"
	"github.com/hanzla-outlet/outlet-backend/internal/app/controller"
	"github.com/hanzla-outlet/outlet-backend/internal/app/repository"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	"github.com/hanzla-outlet/outlet-backend/internal/db"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
	"github.com/hanzla-outlet/outlet-backend/internal/router"
	"github.com/hanzla-outlet/outlet-backend/internal/scheduler"
	"github.com/hanzla-outlet/outlet-backend/internal/storage"
	ws "github.com/hanzla-outlet/outlet-backend/internal/websocket"
	"github.com/hanzla-outlet/outlet-backend/pkg/logger"
	"github.com/hanzla-outlet/outlet-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Outlet Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs token revocation and the catalog snapshot. Without it both degrade:
	// logout cannot revoke and the stylist reads products straight from the database.
	var (
		blacklist service.TokenBlacklist
		revoked   middleware.RevocationChecker
		cache     service.SnapshotCache
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without token revocation and snapshot cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redisClient.Close()
			blacklist = redisClient
			revoked = redisClient
			cache = redisClient
		}
	}

	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)
	addressRepo := repository.NewAddressRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	wishlistRepo := repository.NewWishlistRepository(database)

	hub := ws.NewHub()
	go hub.Run(ctx)

	authService := service.NewAuthService(
		userRepo,
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, orderRepo)
	addressService := service.NewAddressService(database, addressRepo)
	orderService := service.NewOrderService(
		database,
		orderRepo,
		addressRepo,
		service.NewInventoryLedger(productRepo),
		cfg.Order.PaymentMethods,
		hub,
	)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	snapshotService := service.NewCatalogSnapshotService(productRepo, cache, cfg.Scheduler.CatalogSnapshotTTL)
	stylistService := service.NewStylistService(snapshotService, service.NewAIService(&cfg.AI))

	var uploader storage.ImageUploader
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, &cfg.S3)
		if err != nil {
			logger.Warn("S3 unavailable, image uploads disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			uploader = s3Storage
		}
	}

	snapshotScheduler := scheduler.NewCatalogSnapshotScheduler(snapshotService, cfg.Scheduler.CatalogSnapshotSpec)
	if err := snapshotScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog snapshot scheduler", err)
	}
	defer snapshotScheduler.Stop()

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewUserController(authService),
		controller.NewCategoryController(categoryService),
		controller.NewProductController(productService),
		controller.NewAddressController(addressService),
		controller.NewOrderController(orderService),
		controller.NewWishlistController(wishlistService),
		controller.NewStylistController(stylistService),
		controller.NewUploadController(uploader),
		controller.NewStockFeedController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, revoked),
		authService,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}
