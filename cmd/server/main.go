package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"govintel/internal/health"
	"govintel/internal/modelregistry"
	"govintel/internal/platform/config"
	"govintel/internal/platform/httpserver"
	"govintel/internal/platform/logger"
	platformmetrics "govintel/internal/platform/metrics"
	"govintel/internal/prediction"
	predictionhandler "govintel/internal/prediction/handler"
	predictionmetrics "govintel/internal/prediction/metrics"
	"govintel/internal/priority"
	priorityhandler "govintel/internal/priority/handler"
	prioritymetrics "govintel/internal/priority/metrics"
	"govintel/internal/privacy"
	httptransport "govintel/internal/transport/http"
	"govintel/pkg/platform/audit/publishers/compliance"
	"govintel/pkg/platform/middleware/auth"
)

const apiName = "Governance Intelligence API"

// version is set at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	platform := platformmetrics.New(reg)
	platform.SetBuildInfo(cfg.Models.Version)

	sink, err := openAuditSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sink.close()

	publisher := compliance.New(sink.store,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics(reg)),
		compliance.WithRetry(cfg.Audit.MaxRetries, cfg.Audit.RetryBackoff),
	)

	sealer, err := privacy.NewSealer(cfg.Privacy.SealKeyHex)
	if err != nil {
		return err
	}
	if !sealer.Enabled() {
		log.Warn("no seal key configured; audit client addresses stored in plaintext")
	}
	auditor := privacy.NewSealingPublisher(sealer, publisher)
	engine := privacy.New(auditor, privacy.WithLogger(log), privacy.WithSealer(sealer))

	models := modelregistry.Open(ctx, os.DirFS(cfg.Models.ArtifactDir), modelregistry.Domains,
		modelregistry.WithLogger(log),
		modelregistry.WithMetrics(platform),
	)
	if !models.AllLoaded() {
		log.Warn("starting degraded: not every model loaded", "artifact_dir", cfg.Models.ArtifactDir)
	}

	predictions := prediction.New(models, engine, auditor,
		prediction.WithLogger(log),
		prediction.WithMetrics(predictionmetrics.New(reg)),
		prediction.WithModelVersion(cfg.Models.Version),
	)
	scorer := priority.NewService(engine, auditor,
		priority.WithLogger(log),
		priority.WithMetrics(prioritymetrics.New(reg)),
	)

	opts := httptransport.Options{Gatherer: reg}
	var priorityOpts []priorityhandler.Option
	if cfg.Auth.Enabled {
		opts.Validator = auth.NewTokenValidator(cfg.Auth.SigningKey, cfg.Auth.Issuer)
		opts.Access = engine
		priorityOpts = append(priorityOpts, priorityhandler.WithAccessGuard(engine))
	}

	router := httptransport.NewRouter(log, httptransport.Handlers{
		Health:     health.New(models, engine, health.Info{Name: apiName, Version: version}, log),
		Prediction: predictionhandler.New(predictions, log),
		Priority:   priorityhandler.New(scorer, log, priorityOpts...),
	}, opts)

	srv := httpserver.New(cfg.Server, router, log)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting govintel",
			"addr", cfg.Server.Addr,
			"environment", cfg.Server.Environment,
			"audit_sink", cfg.Audit.Sink,
			"auth_enabled", cfg.Auth.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
