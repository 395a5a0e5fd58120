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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardiofeat/internal/app"
	"github.com/kailas-cloud/cardiofeat/internal/config"
	"github.com/kailas-cloud/cardiofeat/internal/domain"
	logpkg "github.com/kailas-cloud/cardiofeat/internal/logger"
	"github.com/kailas-cloud/cardiofeat/internal/metrics"
	artifactrepo "github.com/kailas-cloud/cardiofeat/internal/repository/artifact"
	chiTransport "github.com/kailas-cloud/cardiofeat/internal/transport/chi"
	"github.com/kailas-cloud/cardiofeat/internal/usecase/features"
	healthuc "github.com/kailas-cloud/cardiofeat/internal/usecase/health"
	predictionuc "github.com/kailas-cloud/cardiofeat/internal/usecase/prediction"
	"github.com/kailas-cloud/cardiofeat/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cardiofeat API server",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("artifact_driver", cfg.Artifacts.Driver),
	)

	featCfg, err := cfg.Features.Build()
	if err != nil {
		logger.Fatal("Invalid feature configuration", zap.Error(err))
	}

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg.Artifacts, logger)
	if err != nil {
		logger.Fatal("Failed to open artifact store", zap.Error(err))
	}
	defer store.Close()

	// Registered explicitly, no init().
	metrics.RegisterFeatureMetrics()
	metrics.RegisterHTTPMetrics()

	repo := artifactrepo.New(store, cfg.Artifacts.KeyPrefix)
	observer := features.NewInstrumentedObserver(logger)
	predSvc := predictionuc.New(featCfg, repo, app.DecodeLogistic, observer, logger)

	// An empty store is a valid start: the API answers model_not_trained until a reload.
	if gen, err := predSvc.Load(ctx); err != nil {
		if !errors.Is(err, domain.ErrMissingConfiguration) {
			logger.Fatal("Failed to load model generation", zap.Error(err))
		}
		logger.Warn("No trained model published yet", zap.Error(err))
	} else {
		logger.Info("Serving model generation", zap.String("generation", gen))
	}

	healthSvc := healthuc.New(store, predSvc)
	server := chiTransport.NewServer(predSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// SIGHUP reloads the published generation without restarting.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if gen, err := predSvc.Load(ctx); err != nil {
				logger.Error("Reload failed", zap.Error(err))
			} else {
				logger.Info("Reloaded model generation", zap.String("generation", gen))
			}
		}
	}()

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	signal.Stop(hup)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
