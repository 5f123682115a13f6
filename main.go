package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/self-lens/api-go/config"
	"github.com/self-lens/api-go/routes"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Fine in production where config comes from the environment.
	}

	logger := config.NewLogger()
	defer logger.Sync()

	db, err := config.InitDB()
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	googleConfig, err := config.NewGoogleConfig()
	if err != nil {
		logger.Warn("google login disabled", zap.Error(err))
	}

	storage, err := config.NewFileStorage()
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}

	r := routes.SetupRouter(db, googleConfig, storage, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := config.CloseDB(db); err != nil {
		logger.Error("closing database failed", zap.Error(err))
	}
}
