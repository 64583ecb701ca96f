package ingest

import (
	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/appstate"
	"github.com/Faultbox/panoselect/internal/metrics"
)

// Recorder receives ingest outcomes.
type Recorder interface {
	ObserveIngest(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveIngest(string) {}

// Ingestor validates inbound images and publishes them.
type Ingestor struct {
	store     *appstate.Store
	eventName string
	rec       Recorder
	log       *zap.Logger
}

// NewIngestor creates an ingestor publishing to store. Events whose name
// differs from eventName are ignored; an empty eventName means
// EventImageReceived.
func NewIngestor(store *appstate.Store, eventName string, rec Recorder, log *zap.Logger) *Ingestor {
	if eventName == "" {
		eventName = EventImageReceived
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{store: store, eventName: eventName, rec: rec, log: log}
}

// Handle processes one push event. A valid image is published exactly
// once; anything else is logged and discarded. The returned error is for
// callers that want to inspect the outcome.
func (i *Ingestor) Handle(ev Event) error {
	if ev.Name != i.eventName {
		i.rec.ObserveIngest(metrics.OutcomeIgnored)
		i.log.Debug("ignoring push event", zap.String("event", ev.Name))
		return nil
	}

	img, err := Decode(ev.Data.Image, ev.Data.MIMEType)
	if err != nil {
		i.reject(appstate.SourcePush, err)
		return err
	}
	i.publish(appstate.SourcePush, img)
	return nil
}

// Accept processes raw image bytes fetched over HTTP.
func (i *Ingestor) Accept(src appstate.Source, raw []byte, mimeType string) error {
	img, err := Inspect(raw, mimeType)
	if err != nil {
		i.reject(src, err)
		return err
	}
	i.publish(src, img)
	return nil
}

func (i *Ingestor) reject(src appstate.Source, err error) {
	i.rec.ObserveIngest(metrics.OutcomeRejected)
	i.log.Warn("discarding inbound image", zap.Stringer("source", src), zap.Error(err))
}

func (i *Ingestor) publish(src appstate.Source, img Image) {
	i.store.Publish(appstate.Artifact{
		Name:       img.Name,
		ByteLength: len(img.Bytes),
		MIMEType:   img.MIMEType,
		Bytes:      img.Bytes,
		Width:      img.Width,
		Height:     img.Height,
		Source:     src,
		ReceivedAt: now(),
	})
	i.rec.ObserveIngest(metrics.OutcomeAccepted)
	i.log.Info("image received",
		zap.String("name", img.Name),
		zap.Int("bytes", len(img.Bytes)),
		zap.String("mime", img.MIMEType),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Stringer("source", src),
	)
}
