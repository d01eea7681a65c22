package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elecdesign/internal/auth"
	"elecdesign/internal/config"
	"elecdesign/internal/database"
	"elecdesign/internal/logger"
	"elecdesign/internal/metrics"
	"elecdesign/internal/norms"
	"elecdesign/internal/routes"
	"elecdesign/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(reg)

	var db *bun.DB
	var normsSvc *services.NormsService
	switch cfg.NormsSource {
	case config.NormsDatabase:
		var err error
		db, err = database.New(cfg.DatabaseURL, cfg)
		if err != nil {
			logr.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		src := norms.NewDBSource(db, cfg.RuleSetVersion)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		tables, err := src.LoadTables(ctx)
		cancel()
		if err != nil {
			logr.Fatal("failed to load reference tables", zap.Error(err))
		}
		normsSvc = services.NewNormsService(norms.NewProvider(src, cfg.RuleSetVersion), tables, src, logr.Logger, rec)
	default:
		var err error
		normsSvc, err = services.NewStaticNormsService(cfg.NormTablesPath, cfg.RuleSetVersion, logr.Logger, rec)
		if err != nil {
			logr.Fatal("failed to load norm tables", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := normsSvc.Preload(ctx, nil); err != nil {
		logr.Fatal("failed to preload norm parameters", zap.Error(err))
	}
	cancel()

	var verifier *auth.Verifier
	if cfg.AuthEnabled {
		var err error
		verifier, err = auth.NewVerifier(cfg.JWTPublicKeyPath, cfg.JWTIssuer)
		if err != nil {
			logr.Fatal("failed to init jwt verifier", zap.Error(err))
		}
	}

	r := routes.NewRouter(cfg, logr, routes.Deps{
		Design:   services.NewDesignService(normsSvc, logr.Logger, rec),
		Norms:    normsSvc,
		Verifier: verifier,
		Gatherer: reg,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started",
			zap.String("port", cfg.Port),
			zap.String("norms_source", cfg.NormsSource),
			zap.Bool("auth", cfg.AuthEnabled))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	if db != nil {
		_ = db.Close()
	}
	logr.Info("server exited gracefully")
}
