package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/mailmap/internal/api"
	"github.com/Harshitk-cp/mailmap/internal/config"
	"github.com/Harshitk-cp/mailmap/internal/google"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// Google services are optional: without them the API still serves
	// feedback, ontology and training-export flows.
	var gsvc *google.Services
	if creds := config.GoogleCredentialsFile(); creds != "" {
		var err error
		gsvc, err = google.NewServices(ctx, creds, config.GoogleTokenFile())
		if err != nil {
			logger.Fatal("failed to initialize google services", zap.Error(err))
		}
		logger.Info("google services initialized")
	} else {
		logger.Warn("GOOGLE_CREDENTIALS_FILE not set, mailbox scan and sync disabled")
	}

	app := api.NewApp(gsvc, logger)

	feedbackPath := config.FeedbackPath()
	if n, err := app.Feedback.Load(feedbackPath); err != nil {
		logger.Warn("failed to load feedback store", zap.String("path", feedbackPath), zap.Error(err))
	} else if n > 0 {
		logger.Info("loaded feedback records", zap.Int("count", n), zap.String("path", feedbackPath))
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	// Stop an in-flight scan before the listener closes.
	app.Pipeline.Flush()

	if err := app.Feedback.Save(feedbackPath); err != nil {
		logger.Error("failed to save feedback store", zap.String("path", feedbackPath), zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
