package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-commerce/internal/client"
	"creator-commerce/internal/config"
	"creator-commerce/internal/logging"
	"creator-commerce/internal/repository"
	"creator-commerce/internal/server"
	"creator-commerce/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	rdb, err := client.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	var claimer repository.EventClaimer = repository.NoopEventClaimer{}
	if rdb != nil {
		defer rdb.Close()
		claimer = repository.NewRedisEventClaimer(rdb, "stripe_event", cfg.Redis.ClaimTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, webhook event claims disabled")
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe)

	purchaseService := service.NewPurchaseService(
		stripeClient,
		stores.Purchases,
		stores.Sellers,
		stores.ConnectedAccounts,
		stores.Bundles,
		logger,
	)
	sellerService := service.NewSellerService(stripeClient, stores.Sellers, stores.ConnectedAccounts, logger)
	webhookService := service.NewWebhookService(
		stripeClient,
		stores.WebhookEvents,
		claimer,
		purchaseService,
		sellerService,
		logger,
	)

	srv := server.NewServer(webhookService, sellerService, purchaseService, logger, server.Options{
		ConnectReturnURL:  cfg.ConnectReturnURL(),
		ConnectRefreshURL: cfg.ConnectRefreshURL(),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	logger.Info("starting HTTP server", "addr", serverAddr, "store", cfg.Store.Driver, "environment", cfg.Environment.Name)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		logger.Info("signal received, starting graceful shutdown", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func openStores(ctx context.Context, cfg *config.Config) (*repository.Stores, func(), error) {
	switch cfg.Store.Driver {
	case "firestore":
		fs, err := client.NewFirestoreClient(ctx, &cfg.Firebase)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewFirestoreStores(fs), func() { _ = fs.Close() }, nil
	default:
		db, err := client.OpenDatabase(cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormStores(db), closeDB, nil
	}
}
