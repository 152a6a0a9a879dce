package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/plugspot/plugspot/internal/api/handlers"
	"github.com/plugspot/plugspot/internal/api/market"
	"github.com/plugspot/plugspot/internal/config"
	"github.com/plugspot/plugspot/internal/service"
	"github.com/plugspot/plugspot/internal/session"
	"github.com/plugspot/plugspot/internal/state"
	"github.com/plugspot/plugspot/pkg/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting plugspot dashboard", zap.String("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session state survives restarts via the session file.
	store := session.NewStore(cfg.SessionFile, logger)
	if err := store.Load(); err != nil {
		logger.Warn("Could not load persisted session", zap.Error(err))
	}

	wsHub := ws.NewHub(logger)
	go wsHub.Run()

	apiClient := market.NewClient(cfg.MarketAPIHost, cfg.APITimeout, store, logger)
	// The 401 logout side effect lives in the transport layer: clear the
	// session pair and tell every attached page to reload.
	apiClient.SetUnauthorizedHook(func() {
		logger.Info("Session rejected by marketplace, clearing state")
		store.Clear()
		wsHub.BroadcastReload()
	})

	requestMachines := state.NewManager(func(requestID, from, to string) {
		logger.Debug("Booking request transitioned",
			zap.String("request_id", requestID),
			zap.String("from", from),
			zap.String("to", to))
	})

	dashboardService := service.NewDashboardService(cfg, logger, apiClient, store, wsHub, requestMachines)
	ownerService := service.NewOwnerService(cfg, logger, apiClient, store, requestMachines)
	actions := service.NewActions(logger, apiClient, dashboardService, requestMachines)
	auth := session.NewAuthenticator(apiClient, store, logger)

	wsHub.SetSnapshotProvider(func() interface{} {
		if snap := dashboardService.Snapshot(); snap != nil {
			return snap
		}
		return nil
	})

	if err := dashboardService.Start(ctx); err != nil {
		logger.Fatal("Failed to start dashboard service", zap.Error(err))
	}

	handler := handlers.NewHandler(logger, store, auth, dashboardService, ownerService, actions, wsHub)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	dashboardService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
