package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panoselect/internal/appstate"
	"github.com/Faultbox/panoselect/internal/metrics"
)

type countingRecorder map[string]int

func (c countingRecorder) ObserveIngest(outcome string) { c[outcome]++ }

func TestHandlePublishesOnce(t *testing.T) {
	store := appstate.NewStore()
	rec := countingRecorder{}
	ing := NewIngestor(store, "", rec, nil)

	err := ing.Handle(Event{Name: EventImageReceived, Data: EventData{Image: pngBase64(t, 8, 6)}})
	require.NoError(t, err)

	got, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, 8, got.Width)
	assert.Equal(t, 6, got.Height)
	assert.Equal(t, len(got.Bytes), got.ByteLength)
	assert.Equal(t, appstate.SourcePush, got.Source)
	assert.False(t, got.ReceivedAt.IsZero())
	assert.Equal(t, uint64(1), store.Version())
	assert.Equal(t, 1, rec[metrics.OutcomeAccepted])
}

func TestHandleDiscardsInvalid(t *testing.T) {
	store := appstate.NewStore()
	rec := countingRecorder{}
	ing := NewIngestor(store, "", rec, nil)

	err := ing.Handle(Event{Name: EventImageReceived})
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, ok := store.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, rec[metrics.OutcomeRejected])
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	store := appstate.NewStore()
	rec := countingRecorder{}
	ing := NewIngestor(store, "", rec, nil)

	require.NoError(t, ing.Handle(Event{Name: "progress", Data: EventData{Image: pngBase64(t, 1, 1)}}))
	assert.Zero(t, store.Version())
	assert.Equal(t, 1, rec[metrics.OutcomeIgnored])
}

func TestAcceptRawBytes(t *testing.T) {
	store := appstate.NewStore()
	ing := NewIngestor(store, "", nil, nil)

	require.NoError(t, ing.Accept(appstate.SourceCached, pngBytes(t, 3, 3), "image/png"))
	got, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, appstate.SourceCached, got.Source)

	assert.ErrorIs(t, ing.Accept(appstate.SourceInput, []byte("junk"), ""), ErrNotImage)
	assert.Equal(t, uint64(1), store.Version())
}
