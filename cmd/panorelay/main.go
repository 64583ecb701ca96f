// Package main is the entry point for the editing-service relay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/config"
	"github.com/Faultbox/panoselect/internal/logger"
	"github.com/Faultbox/panoselect/internal/metrics"
	"github.com/Faultbox/panoselect/internal/relay"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== PanoSelect Relay ===")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := relay.NewServer(relay.Options{
		OutputDir:       cfg.Relay.OutputDir,
		DownloadTimeout: cfg.Relay.DownloadTimeout,
		Recorder:        metrics.NewRecorder(reg),
		Gatherer:        reg,
		Logger:          logger.Named("relay"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, cfg.Relay.ListenAddr); err != nil {
		logger.Error("relay error", zap.String("addr", cfg.Relay.ListenAddr), zap.Error(err))
		os.Exit(1)
	}

	logger.Info("relay stopped")
}
