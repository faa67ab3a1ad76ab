package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"proshop/internal/auth"
	"proshop/internal/cache"
	"proshop/internal/config"
	"proshop/internal/database"
	"proshop/internal/handler"
	"proshop/internal/payment"
	"proshop/internal/pricing"
	"proshop/internal/repository"
	"proshop/internal/router"
	"proshop/internal/service"
	"proshop/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting proshop API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	var productCache cache.Cache
	if cfg.Redis.Enabled {
		productCache = cache.NewRedisCache(cfg.Redis.Addr, logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis product cache enabled")
	} else {
		productCache = cache.NewNoopCache()
		logger.Info().Msg("product cache disabled")
	}
	defer productCache.Close()

	var imageStore storage.Store
	if cfg.S3.Enabled {
		imageStore, err = storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 store, falling back to local file system")
			imageStore = nil
		}
	}
	if imageStore == nil {
		imageStore, err = storage.NewDiskStore(cfg.Upload.Dir, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize upload storage: %w", err)
		}
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	pricer := pricing.NewEngine(cfg.Pricing)
	verifier := payment.NewPayPalVerifier(cfg.PayPal, logger)

	userService := service.NewUserService(userRepo, logger)
	productService := service.NewProductService(productRepo, productCache, cfg.Redis.TTL, cfg.Catalog.PageSize, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, pricer, verifier, logger)

	userHandler := handler.NewUserHandler(userService, tokens, cfg.Auth.CookieName, cfg.Auth.CookieSecure, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	uploadHandler := handler.NewUploadHandler(imageStore, logger)

	mux := router.New(userHandler, productHandler, orderHandler, uploadHandler,
		tokens, userRepo, cfg.Auth.CookieName, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
