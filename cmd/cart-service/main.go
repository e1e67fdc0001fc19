package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_cart/internal/config"
	h "github.com/fjod/go_cart/internal/http"
	"github.com/fjod/go_cart/internal/idempotency"
	"github.com/fjod/go_cart/internal/ledger"
	"github.com/fjod/go_cart/internal/logger"
	"github.com/fjod/go_cart/internal/probe"
	"github.com/fjod/go_cart/internal/publisher"
	s "github.com/fjod/go_cart/internal/service"
	"github.com/fjod/go_cart/internal/store"
	"github.com/fjod/go_cart/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("cart service failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.ServiceName, cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			slog.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	catalog := store.NewCatalogStore()
	if cfg.SeedCatalog {
		seeded := catalog.Seed(store.DefaultProducts())
		slog.Info("catalog seeded", slog.Int("products", len(seeded)))
	}
	carts := store.NewCartStore()

	health := probe.NewServer()
	components := []string{"cart"}

	var (
		recorders []s.CheckoutRecorder
		history   h.CheckoutHistory
		guard     h.IdempotencyGuard
	)

	if cfg.LedgerDBPath != "" {
		repo, err := ledger.NewRepository(cfg.LedgerDBPath)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.RunMigrations(); err != nil {
			return err
		}
		recorders = append(recorders, repo)
		history = repo
		go health.Watch(ctx, "ledger", 15*time.Second, repo.Ping)
		slog.Info("checkout ledger enabled", slog.String("path", cfg.LedgerDBPath))
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub := publisher.NewPublisher(cfg.CheckoutTopic, cfg.KafkaBrokers...)
		defer pub.Close()
		recorders = append(recorders, pub)
		components = append(components, "publisher")
		slog.Info("checkout events enabled",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.CheckoutTopic),
		)
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		guard = idempotency.NewGuard(idempotency.NewRedisCache(redisClient, cfg.IdempotencyTTL))
		go health.Watch(ctx, "redis", 15*time.Second, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		slog.Info("idempotent checkout enabled", slog.String("redis", cfg.RedisAddr))
	}

	cartService := s.NewCartService(carts, catalog, recorders...)
	catalogService := s.NewCatalogService(catalog)

	router := h.NewRouter(
		h.RouterConfig{RequestTimeout: cfg.RequestTimeout, MaxRequestBodySize: 1 << 20},
		h.NewProductHandler(catalogService, cfg.RequestTimeout),
		h.NewCartHandler(cartService, cfg.RequestTimeout),
		h.NewCheckoutHandler(cartService, history, guard, cfg.RequestTimeout),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCHealthPort)
	if err != nil {
		return fmt.Errorf("failed to listen on health port: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("health probe starting", slog.String("port", cfg.GRPCHealthPort))
		if err := health.Serve(lis); err != nil {
			errCh <- fmt.Errorf("health server error: %w", err)
		}
	}()
	go func() {
		slog.Info("cart service starting", slog.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()
	health.SetServing(components...)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	slog.Info("shutting down server...")
	health.Stop()

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited")
	return nil
}
