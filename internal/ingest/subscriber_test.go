package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type reconnectCounter struct{ n atomic.Int32 }

func (c *reconnectCounter) IncReconnect() { c.n.Add(1) }

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSubscriberForwardsEvents(t *testing.T) {
	payload := pngBase64(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteJSON(Event{Name: "other"})
		conn.WriteJSON(Event{Name: EventImageReceived, Data: EventData{Image: payload}})
		// Hold the connection until the client leaves.
		conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Event, 4)
	sub := NewSubscriber(SubscriberOptions{URL: wsURL(srv), MaxAttempts: 1, Backoff: time.Millisecond})

	errc := make(chan error, 1)
	go func() { errc <- sub.Run(ctx, out) }()

	first := <-out
	assert.Equal(t, "other", first.Name)
	second := <-out
	assert.Equal(t, EventImageReceived, second.Name)
	assert.Equal(t, payload, second.Data.Image)

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSubscriberExhaustsReconnects(t *testing.T) {
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	rec := &reconnectCounter{}
	sub := NewSubscriber(SubscriberOptions{
		URL:         wsURL(srv),
		MaxAttempts: 2,
		Backoff:     time.Millisecond,
		Recorder:    rec,
	})

	err := sub.Run(context.Background(), make(chan Event))
	require.ErrorIs(t, err, ErrReconnectExhausted)
	assert.Equal(t, int32(3), dials.Load())
	assert.Equal(t, int32(2), rec.n.Load())
}

func TestSubscriberZeroAttemptsGivesUpImmediately(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	sub := NewSubscriber(SubscriberOptions{URL: wsURL(srv)})
	err := sub.Run(context.Background(), make(chan Event))
	assert.ErrorIs(t, err, ErrReconnectExhausted)
}

func TestSubscriberResetsAttemptsOnSuccess(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if conns.Add(1) > 3 {
			http.Error(w, "gone", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.WriteJSON(Event{Name: EventImageReceived})
		conn.Close()
	}))
	defer srv.Close()

	out := make(chan Event, 8)
	sub := NewSubscriber(SubscriberOptions{URL: wsURL(srv), MaxAttempts: 1, Backoff: time.Millisecond})

	err := sub.Run(context.Background(), out)
	require.ErrorIs(t, err, ErrReconnectExhausted)
	assert.Len(t, out, 3)
	assert.Equal(t, int32(4), conns.Load())
}
