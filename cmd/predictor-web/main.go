package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/courtside/win-predictor/internal/config"
	"github.com/courtside/win-predictor/internal/handlers"
	"github.com/courtside/win-predictor/internal/predictor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "predictor-web: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	client, err := predictor.New(predictor.Config{
		BaseURL: cfg.PredictorURL,
		Path:    cfg.PredictPath,
		Timeout: cfg.PredictTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	sessions := handlers.NewSessionStore(cfg.SessionTTL)
	h := handlers.New(handlers.Config{
		Backend:        client,
		Sessions:       sessions,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  !cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server",
			zap.Int("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("predictor", client.Endpoint()),
			zap.Duration("predict_timeout", cfg.PredictTimeout),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sessions.Run(ctx, time.Minute)
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
