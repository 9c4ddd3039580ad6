package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/observability"
	"storefront/internal/server"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal("storage init failed", "backend", cfg.StorageBackend, "error", err)
	}
	defer backend.close()

	var redisClient redis.UniversalClient
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, product reads fall back to storage", "addr", cfg.RedisAddr, "error", err)
		}
		redisClient = client
	}
	catalog := cache.NewCatalog(backend.products, redisClient, cfg.ProductCacheTTL, log)

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		rabbit, err := events.DialRabbit(cfg.AMQPURL, log)
		if err != nil {
			log.Warn("rabbitmq unavailable, order events disabled", "error", err)
		} else {
			publisher = rabbit
		}
	}
	defer publisher.Close()

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(cfg.Environment, log)
		if err != nil {
			log.Warn("tracing disabled", "error", err)
			cfg.TracingEnabled = false
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	var orderCatalog handlers.ProductReader
	if cfg.VerifyOrderTotal {
		orderCatalog = catalog
	}

	router := server.NewRouter(server.Deps{
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		Tokens:       handlers.TokenIssuer{Secret: cfg.JWTSecret, AccessTTL: cfg.AccessTokenTTL},
		CORSOrigins:  cfg.CORSAllowedOrigins,
		Tracing:      cfg.TracingEnabled,
		Ping:         backend.ping,
		Carts:        backend.carts,
		Addresses:    backend.addresses,
		Orders:       backend.orders,
		Products:     catalog,
		Users:        backend.users,
		OrderCatalog: orderCatalog,
		Publisher:    publisher,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
