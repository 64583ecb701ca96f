package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoImage is returned when the service has no image to hand out.
var ErrNoImage = errors.New("no image available")

const (
	cachedImagePath = "/api/v1/cached_image/"
	inputImagePath  = "/api/v1/inputimage"

	// maxImageBytes bounds a single fetched image.
	maxImageBytes = 64 << 20
)

// Fetched is an image body read over HTTP.
type Fetched struct {
	Bytes    []byte
	MIMEType string
}

// Fetcher reads images from the editing service over HTTP.
type Fetcher struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewFetcher creates a fetcher for the service at baseURL.
func NewFetcher(baseURL string, timeout time.Duration, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Cached fetches one image from the service cache.
func (f *Fetcher) Cached(ctx context.Context, id string) (Fetched, error) {
	if id == "" {
		return Fetched{}, fmt.Errorf("%w: empty image id", ErrNoImage)
	}
	return f.get(ctx, cachedImagePath+url.PathEscape(id))
}

// Input fetches the image currently loaded in the service.
func (f *Fetcher) Input(ctx context.Context) (Fetched, error) {
	return f.get(ctx, inputImagePath)
}

func (f *Fetcher) get(ctx context.Context, route string) (Fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+route, nil)
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Fetched{}, fmt.Errorf("GET %s: %w", route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Fetched{}, fmt.Errorf("%w: GET %s returned %d", ErrNoImage, route, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to read %s: %w", route, err)
	}
	if len(body) == 0 {
		return Fetched{}, fmt.Errorf("%w: GET %s returned an empty body", ErrNoImage, route)
	}

	f.log.Debug("fetched image", zap.String("route", route), zap.Int("bytes", len(body)))
	return Fetched{Bytes: body, MIMEType: resp.Header.Get("Content-Type")}, nil
}
