package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrReconnectExhausted is returned by Run when the push channel could not
// be re-established within the configured number of attempts.
var ErrReconnectExhausted = errors.New("push channel reconnect attempts exhausted")

// ReconnectRecorder counts reconnect attempts.
type ReconnectRecorder interface {
	IncReconnect()
}

type nopReconnect struct{}

func (nopReconnect) IncReconnect() {}

// SubscriberOptions configures a Subscriber.
type SubscriberOptions struct {
	URL         string
	MaxAttempts int
	Backoff     time.Duration

	// Dialer defaults to websocket.DefaultDialer.
	Dialer   *websocket.Dialer
	Recorder ReconnectRecorder
	Logger   *zap.Logger
}

// Subscriber holds one websocket subscription to the push channel.
type Subscriber struct {
	opts SubscriberOptions
	log  *zap.Logger
}

// NewSubscriber creates a subscriber. It does not connect until Run.
func NewSubscriber(opts SubscriberOptions) *Subscriber {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.Recorder == nil {
		opts.Recorder = nopReconnect{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxAttempts < 0 {
		opts.MaxAttempts = 0
	}
	return &Subscriber{opts: opts, log: opts.Logger}
}

// Run connects and forwards every parsed event to out until ctx is done
// or reconnecting fails MaxAttempts times in a row. A successful
// connection resets the attempt counter.
func (s *Subscriber) Run(ctx context.Context, out chan<- Event) error {
	attempts := 0
	first := true

	for {
		if !first {
			if attempts >= s.opts.MaxAttempts {
				s.log.Error("giving up on push channel",
					zap.String("url", s.opts.URL),
					zap.Int("attempts", attempts),
				)
				return ErrReconnectExhausted
			}
			attempts++
			s.opts.Recorder.IncReconnect()
			s.log.Info("reconnecting to push channel",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", s.opts.MaxAttempts),
				zap.Duration("backoff", s.opts.Backoff),
			)
			if err := sleep(ctx, s.opts.Backoff); err != nil {
				return err
			}
		}
		first = false

		conn, _, err := s.opts.Dialer.DialContext(ctx, s.opts.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("push channel connect failed", zap.String("url", s.opts.URL), zap.Error(err))
			continue
		}

		attempts = 0
		s.log.Info("push channel connected", zap.String("url", s.opts.URL))

		err = s.receive(ctx, conn, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("push channel lost", zap.Error(err))
	}
}

// receive reads messages until the connection fails or ctx is done.
func (s *Subscriber) receive(ctx context.Context, conn *websocket.Conn, out chan<- Event) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		ev, err := ParseEvent(message)
		if err != nil {
			s.log.Warn("dropping malformed push message", zap.Error(err))
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
