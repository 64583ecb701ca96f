// Package relay implements the editing-service side of the handoff: it
// downloads selected cubemap faces, serves them to the editing page,
// broadcasts edited results to push subscribers and writes edited faces
// back next to a notification file.
package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recorder receives relay metrics.
type Recorder interface {
	IncBroadcast()
	SetHubClients(n int)
	ObserveCache(ok bool)
}

type nopRecorder struct{}

func (nopRecorder) IncBroadcast() {}
func (nopRecorder) SetHubClients(int) {}
func (nopRecorder) ObserveCache(bool) {}

// Options configures a Server.
type Options struct {
	OutputDir       string
	DownloadTimeout time.Duration
	CacheSize       int

	// HTTPClient downloads face images. Defaults to a client bounded by
	// DownloadTimeout.
	HTTPClient *http.Client
	Recorder   Recorder

	// Gatherer backs /metrics. The endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Server is the relay HTTP service.
type Server struct {
	opts   Options
	cache  *Cache
	hub    *Hub
	client *http.Client
	log    *zap.Logger
}

// NewServer creates a relay server.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = 30 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.DownloadTimeout}
	}
	return &Server{
		opts:   opts,
		cache:  NewCache(opts.CacheSize),
		hub:    NewHub(opts.Recorder, opts.Logger.Named("hub")),
		client: client,
		log:    opts.Logger,
	}
}

// Cache exposes the image cache.
func (s *Server) Cache() *Cache { return s.cache }

// Hub exposes the broadcast hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/unity_image_url", s.handleImageURL)
	mux.HandleFunc("GET /api/v1/cached_image/{id}", s.handleCachedImage)
	mux.HandleFunc("GET /api/v1/inputimage", s.handleInputImage)
	mux.HandleFunc("POST /api/v1/unity_image", s.handleUnityImage)
	mux.HandleFunc("POST /api/v1/send_to_unity", s.handleSendToUnity)
	mux.Handle("GET /api/v1/ws", s.hub)
	if s.opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("relay listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		s.hub.Close()
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
