package handoff

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panoselect/pkg/cubeface"
)

type countingRecorder struct {
	mu  sync.Mutex
	ok  int
	bad int
}

func (r *countingRecorder) ObserveHandoff(ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.ok++
	} else {
		r.bad++
	}
}

func TestSendPostsImageURL(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotType   string
		gotBody   Payload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"redirect_url":"/?image=unity_image_1"}`))
	}))
	defer srv.Close()

	rec := &countingRecorder{}
	c := NewClient(Options{
		ServiceURL:   srv.URL + "/",
		CubemapsBase: "https://cdn.example.com/cubemaps",
		Timeout:      time.Second,
		Recorder:     rec,
	})

	res := c.Send(context.Background(), Reference{Face: cubeface.PosY, PanoramaID: "P1"})
	require.NoError(t, res.Err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, DefaultEndpointPath, gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "https://cdn.example.com/cubemaps/P1/P1_u.png", gotBody.ImageURL)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Body, "redirect_url")
	assert.Equal(t, 1, rec.ok)
}

func TestSendNon2xxIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "download failed", http.StatusBadRequest)
	}))
	defer srv.Close()

	rec := &countingRecorder{}
	c := NewClient(Options{ServiceURL: srv.URL, CubemapsBase: "http://cdn", Recorder: rec})

	res := c.Send(context.Background(), Reference{Face: cubeface.NegX, PanoramaID: "P2"})
	require.Error(t, res.Err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, 1, rec.bad)
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{ServiceURL: srv.URL, CubemapsBase: "http://cdn", Timeout: 50 * time.Millisecond})

	start := time.Now()
	res := c.Send(context.Background(), Reference{Face: cubeface.PosZ, PanoramaID: "P3"})
	require.Error(t, res.Err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Options{ServiceURL: url, CubemapsBase: "http://cdn", Timeout: time.Second})
	res := c.Send(context.Background(), Reference{Face: cubeface.PosZ, PanoramaID: "P3"})
	assert.Error(t, res.Err)
	assert.Zero(t, res.StatusCode)
}

func TestSendInvalidReferenceMakesNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(Options{ServiceURL: srv.URL, CubemapsBase: "http://cdn"})
	res := c.Send(context.Background(), Reference{Face: cubeface.PosZ})
	assert.Error(t, res.Err)
	assert.False(t, called)
}

func TestDispatchDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	var hits int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		<-release
	}))
	defer srv.Close()

	c := NewClient(Options{ServiceURL: srv.URL, CubemapsBase: "http://cdn", Timeout: 5 * time.Second})
	ref := Reference{Face: cubeface.NegY, PanoramaID: "P4"}

	done := c.Dispatch(context.Background(), ref)

	select {
	case <-done:
		t.Fatal("dispatch finished before the server answered")
	default:
	}

	close(release)

	select {
	case res, ok := <-done:
		require.True(t, ok)
		assert.NoError(t, res.Err)
		assert.Equal(t, ref, res.Reference)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch never completed")
	}

	// Exactly one result, then closed.
	_, ok := <-done
	assert.False(t, ok)

	mu.Lock()
	assert.Equal(t, 1, hits)
	mu.Unlock()
}

func TestEndpointJoin(t *testing.T) {
	c := NewClient(Options{ServiceURL: "http://edit.local:8080/", EndpointPath: "api/v1/unity_image_url"})
	assert.Equal(t, "http://edit.local:8080/api/v1/unity_image_url", c.Endpoint())
}
