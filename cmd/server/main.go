package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopmart-be/internal/cart"
	"shopmart-be/internal/category"
	"shopmart-be/internal/config"
	"shopmart-be/internal/counter"
	"shopmart-be/internal/db"
	"shopmart-be/internal/inventory"
	"shopmart-be/internal/logger"
	"shopmart-be/internal/middleware"
	"shopmart-be/internal/order"
	"shopmart-be/internal/product"
	"shopmart-be/internal/stats"
	"shopmart-be/internal/user"
	"shopmart-be/internal/wishlist"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	// Redis is optional: without it the badge counters hit the DB.
	var counters *counter.Cache
	if cfg.RedisAddr != "" {
		rdb, err := counter.InitRedis(cfg.RedisAddr, cfg.RedisPass)
		if err != nil {
			log.Warn("redis unavailable, counter cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			counters = counter.New(rdb)
			log.Info("redis connection established")
		}
	}

	ledger := inventory.NewLedger()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	categoryRepo := category.NewRepository(database)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo, counters)

	wishlistRepo := wishlist.NewRepository(database)
	wishlistSvc := wishlist.NewService(wishlistRepo, productRepo, counters)

	orderRepo := order.NewRepository(database, ledger)
	orderSvc := order.NewService(orderRepo, counters)

	statsRepo := stats.NewRepository(database)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestIDMiddleware())
	router.Use(logger.LoggingMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.RateLimit())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.PrometheusHandler())

	public := router.Group("/api")
	user.NewHandler(userSvc).RegisterPublic(public)

	api := router.Group("/api", middleware.Auth())
	user.NewHandler(userSvc).RegisterProtected(api)
	category.NewHandler(categoryRepo).Register(api)
	product.NewHandler(productSvc).Register(api)
	cart.NewHandler(cartSvc).Register(api)
	wishlist.NewHandler(wishlistSvc).Register(api)
	order.NewHandler(orderSvc).Register(api)
	stats.NewHandler(statsRepo).Register(api)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
