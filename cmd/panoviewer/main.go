// Package main is the entry point for the panorama face selection viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/config"
	"github.com/Faultbox/panoselect/internal/handoff"
	"github.com/Faultbox/panoselect/internal/logger"
	"github.com/Faultbox/panoselect/internal/viewer"
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

	logger.Info("=== PanoSelect Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if cfg.Selection.PanoramaID == "" {
		logger.Warn("no panorama id set; selections will be rejected by the handoff client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := handoff.NewClient(handoff.Options{
		ServiceURL:   cfg.Handoff.ServiceURL,
		EndpointPath: cfg.Handoff.EndpointPath,
		CubemapsBase: cfg.Handoff.CubemapsBase,
		Timeout:      cfg.Handoff.RequestTimeout,
		Logger:       logger.Named("handoff"),
	})

	v, err := viewer.New(ctx, cfg, client, logger.Named("viewer"))
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(ctx); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
