package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/api/routes"
	"github.com/hosico-labs/bounty-backend/internal/bootstrap"
	"github.com/hosico-labs/bounty-backend/internal/config"
	"github.com/hosico-labs/bounty-backend/internal/handlers"
	"github.com/hosico-labs/bounty-backend/internal/services"
	"golang.org/x/exp/slog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := bootstrap.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the configured store
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := bootstrap.OpenStore(startCtx, cfg)
	cancelStart()
	if err != nil {
		logger.Error("Failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if store.Close != nil {
			if err := store.Close(ctx); err != nil {
				logger.Error("Error closing store", "error", err)
			}
		}
	}()

	// Authorization gate: store allowlist first, then wallets from config
	static, err := services.NewStaticAllowlist(cfg.Auth.AdminWallets)
	if err != nil {
		logger.Error("Invalid auth.admin_wallets", "error", err)
		os.Exit(1)
	}
	gate := services.NewAuthorizationGate(services.CompositeAllowlist{
		services.NewRepositoryAllowlist(store.AdminWallets),
		static,
	})

	// Initialize Services
	opts := []services.Option{services.WithDefaultTokenSymbol(cfg.Bounty.DefaultTokenSymbol)}
	bountyService := services.NewBountyService(store.Bounties, store.Submissions, store.Categories, gate, opts...)
	submissionService := services.NewSubmissionService(store.Bounties, store.Submissions, opts...)
	winnerService := services.NewWinnerService(store.Bounties, store.Submissions, gate, opts...)

	// Initialize Handlers
	router := routes.SetupRouter(cfg, routes.Handlers{
		Bounty:     handlers.NewBountyHandler(bountyService),
		Submission: handlers.NewSubmissionHandler(submissionService),
		Winner:     handlers.NewWinnerHandler(winnerService),
		Ping:       store.Ping,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Server starting", "port", cfg.Server.Port, "store", cfg.Store.Driver, "serviceTokens", cfg.JWT.Secret != "")

	// Run server in a goroutine so that it doesn't block
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exiting")
}
