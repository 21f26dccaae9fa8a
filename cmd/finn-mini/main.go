package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finn-mini/internal/api"
	"finn-mini/internal/api/handlers"
	"finn-mini/internal/app"
	"finn-mini/internal/service"
	"finn-mini/pkg/auth"
	"finn-mini/pkg/config"
	"finn-mini/pkg/logger"

	"go.uber.org/zap"
)

// @title Finn-mini API
// @version 1.0
// @description Retrieval-grounded wellness tips with safety short-circuits

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Finn-mini service",
		zap.String("kb_source", cfg.Knowledge.Source),
		zap.String("embedder", cfg.Embedder.Type),
	)

	// The knowledge base is built once here and shared read-only by all requests.
	ctx := context.Background()
	pipeline, err := app.Build(ctx, cfg, appLogger)
	if err != nil {
		if errors.Is(err, service.ErrConfiguration) {
			appLogger.Fatal("Refusing to start without a knowledge base", zap.Error(err))
		}
		appLogger.Fatal("Failed to build chat pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	var jwtManager *auth.JWTManager
	if cfg.JWT.SecretKey != "" {
		jwtManager = auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	}

	chatHandler := handlers.NewChatHandler(pipeline.Chat, cfg.Server.RequestTimeout, appLogger)
	healthHandler := handlers.NewHealthHandler(pipeline.Chat)

	server := api.SetupRouter(&cfg.Server, chatHandler, healthHandler, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := server.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := server.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
