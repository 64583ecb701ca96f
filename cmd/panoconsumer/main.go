// Package main is the entry point for the edited-result consumer. It
// subscribes to the push channel, ingests every edited image and writes
// each published artifact to the output directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/appstate"
	"github.com/Faultbox/panoselect/internal/config"
	"github.com/Faultbox/panoselect/internal/ingest"
	"github.com/Faultbox/panoselect/internal/logger"
	"github.com/Faultbox/panoselect/internal/metrics"
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

	logger.Info("=== PanoSelect Consumer ===")

	if err := os.MkdirAll(cfg.Ingest.OutputDir, 0o755); err != nil {
		logger.Error("failed to create output dir", zap.String("dir", cfg.Ingest.OutputDir), zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	if cfg.Ingest.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.Ingest.MetricsAddr, reg)
	}

	store := appstate.NewStore()
	ing := ingest.NewIngestor(store, cfg.Ingest.EventName, rec, logger.Named("ingest"))
	fetcher := ingest.NewFetcher(cfg.Ingest.ServiceURL, cfg.Ingest.FetchTimeout, logger.Named("fetch"))

	artifacts, unsubscribe := store.Subscribe()
	defer unsubscribe()
	go writeArtifacts(cfg.Ingest.OutputDir, artifacts)

	if id := cfg.Ingest.BootstrapImage; id != "" {
		bootstrap(ctx, fetcher, ing, id)
	}

	events := make(chan ingest.Event, 8)
	sub := ingest.NewSubscriber(ingest.SubscriberOptions{
		URL:         cfg.Ingest.PushURL,
		MaxAttempts: cfg.Ingest.MaxReconnectAttempts,
		Backoff:     cfg.Ingest.ReconnectBackoff,
		Recorder:    rec,
		Logger:      logger.Named("push"),
	})

	loop := ingest.NewLoop(ing, events, fetcher, cfg.Ingest.InputCheckInterval, logger.Named("loop"))
	if err := consume(ctx, sub, events, loop, logger.Named("consumer")); err != nil {
		logger.Error("ingest loop error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("consumer stopped")
}

// pushSource feeds push events until it gives up or ctx is done.
type pushSource interface {
	Run(ctx context.Context, out chan<- ingest.Event) error
}

// consume runs the push subscription next to the ingest loop until ctx
// is done. Losing the push channel is not fatal: the loop keeps checking
// the input image, and returns on its own only when it has nothing left
// to watch.
func consume(ctx context.Context, push pushSource, events chan ingest.Event, loop *ingest.Loop, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	pushDone := make(chan struct{})
	go func() {
		defer close(pushDone)
		defer close(events)
		if err := push.Run(ctx, events); err != nil && ctx.Err() == nil {
			log.Warn("continuing without push channel", zap.Error(err))
		}
	}()

	err := loop.Run(ctx)
	<-pushDone
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func bootstrap(ctx context.Context, f *ingest.Fetcher, ing *ingest.Ingestor, id string) {
	got, err := f.Cached(ctx, id)
	if err != nil {
		logger.Warn("bootstrap image unavailable", zap.String("id", id), zap.Error(err))
		return
	}
	if err := ing.Accept(appstate.SourceCached, got.Bytes, got.MIMEType); err != nil {
		logger.Warn("bootstrap image rejected", zap.String("id", id), zap.Error(err))
	}
}

// writeArtifacts is the display stand-in: every published artifact lands
// on disk under its generated name.
func writeArtifacts(dir string, artifacts <-chan appstate.Artifact) {
	for a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Bytes, 0o644); err != nil {
			logger.Error("failed to write artifact", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("artifact written",
			zap.String("path", path),
			zap.Int("bytes", a.ByteLength),
			zap.Stringer("source", a.Source),
		)
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server error", zap.Error(err))
	}
}
