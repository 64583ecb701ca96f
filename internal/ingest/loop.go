package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/appstate"
)

// InputSource returns the image currently loaded in the editing service.
type InputSource interface {
	Input(ctx context.Context) (Fetched, error)
}

// Loop serializes every inbound image through one goroutine, so the
// ingestor never runs concurrently with itself.
type Loop struct {
	ingestor *Ingestor
	events   <-chan Event
	input    InputSource
	interval time.Duration
	log      *zap.Logger

	lastInput uint64
	haveInput bool
}

// NewLoop creates a loop over push events. When input is non-nil and
// interval is positive the loop also checks the input image periodically
// and ingests it whenever its content changes.
func NewLoop(ing *Ingestor, events <-chan Event, input InputSource, interval time.Duration, log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		ingestor: ing,
		events:   events,
		input:    input,
		interval: interval,
		log:      log,
	}
}

// Run blocks until ctx is done or the events channel is closed.
func (l *Loop) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if l.input != nil && l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	events := l.events
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				if tick == nil {
					return nil
				}
				// Keep checking the input image without push.
				events = nil
				continue
			}
			l.ingestor.Handle(ev)

		case <-tick:
			l.checkInput(ctx)
		}
	}
}

func (l *Loop) checkInput(ctx context.Context) {
	got, err := l.input.Input(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoImage) && ctx.Err() == nil {
			l.log.Debug("input image check failed", zap.Error(err))
		}
		return
	}

	sum := xxhash.Sum64(got.Bytes)
	if l.haveInput && sum == l.lastInput {
		return
	}
	l.lastInput = sum
	l.haveInput = true

	// A rejected image is not retried until its content changes.
	l.ingestor.Accept(appstate.SourceInput, got.Bytes, got.MIMEType)
}
