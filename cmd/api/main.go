// Package main is the entry point for the SnapLink API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/snaplink/snaplink/internal/auth"
	"github.com/snaplink/snaplink/internal/cache"
	"github.com/snaplink/snaplink/internal/config"
	"github.com/snaplink/snaplink/internal/database"
	"github.com/snaplink/snaplink/internal/handlers"
	"github.com/snaplink/snaplink/internal/repository"
	"github.com/snaplink/snaplink/internal/server"
	"github.com/snaplink/snaplink/internal/services"
	"github.com/snaplink/snaplink/internal/shortcode"
	"github.com/snaplink/snaplink/internal/useragent"
	"github.com/snaplink/snaplink/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel)
	log.Info("starting snaplink", "env", cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	migrator, err := database.NewMigrator(pool)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	applied, err := migrator.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		log.Info("migrations applied", "count", applied)
	}

	// Repositories
	var urlRepo repository.URLRepository = repository.NewPostgresURLRepository(pool)
	clickRepo := repository.NewPostgresClickRepository(pool)
	userRepo := repository.NewPostgresUserRepository(pool)

	// Redis cache in front of short-code lookups
	var redisCache *cache.RedisCache
	if cfg.RedisEnabled() {
		redisCache, err = cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisCache.Close()

		urlCache := cache.NewURLCache(redisCache, "url:", cfg.Redis.CacheTTL)
		urlRepo = repository.NewCachedURLRepository(urlRepo, urlCache)
		log.Info("redis cache enabled", "ttl", cfg.Redis.CacheTTL.String())
	} else {
		log.Info("redis cache disabled; short-code lookups go straight to the database")
	}

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, "snaplink")
	generator := shortcode.NewRandomGenerator(cfg.URL.ShortCodeLen)
	allocator := shortcode.NewAllocator(generator, urlRepo, shortcode.DefaultMaxAttempts)

	urlService := services.NewURLService(urlRepo, allocator, cfg.URL.BaseURL)
	redirectService := services.NewRedirectService(urlRepo, clickRepo, useragent.NewParser())
	analyticsService := services.NewAnalyticsService(urlRepo, clickRepo)
	userService := services.NewUserService(userRepo, tokens)

	// HTTP server
	srv := server.New(cfg, log, server.Handlers{
		URL:       handlers.NewURLHandler(urlService),
		Redirect:  handlers.NewRedirectHandler(redirectService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, cfg.Analytics.DefaultWindowDays, cfg.Analytics.RetentionDays),
		Auth:      handlers.NewAuthHandler(userService),
	}, tokens)

	srv.HealthHandler().AddCheck("database", func() bool {
		return pool.HealthCheck(context.Background()) == nil
	})
	if redisCache != nil {
		srv.HealthHandler().AddCheck("redis", func() bool {
			return redisCache.Ping(context.Background()) == nil
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
