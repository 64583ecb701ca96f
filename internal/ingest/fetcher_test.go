package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher(t *testing.T) {
	img := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/cached_image/unity_image_1":
			w.Header().Set("Content-Type", "image/png")
			w.Write(img)
		case "/api/v1/inputimage":
			w.Header().Set("Content-Type", "image/png")
			w.Write(img)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/", time.Second, nil)
	ctx := context.Background()

	got, err := f.Cached(ctx, "unity_image_1")
	require.NoError(t, err)
	assert.Equal(t, img, got.Bytes)
	assert.Equal(t, "image/png", got.MIMEType)

	got, err = f.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, img, got.Bytes)

	_, err = f.Cached(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = f.Cached(ctx, "")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestFetcherEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := NewFetcher(srv.URL, time.Second, nil).Input(context.Background())
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestFetcherUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewFetcher(base, time.Second, nil).Input(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoImage)
}
