package appstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentEmpty(t *testing.T) {
	s := NewStore()
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Zero(t, s.Version())
}

func TestLatestWriteWins(t *testing.T) {
	s := NewStore()
	s.Publish(Artifact{Name: "a", Bytes: []byte{1}, ByteLength: 1, Source: SourceCached})
	s.Publish(Artifact{Name: "b", Bytes: []byte{2, 3}, ByteLength: 2, Source: SourcePush})

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, []byte{2, 3}, got.Bytes)
	assert.Equal(t, SourcePush, got.Source)
	assert.Equal(t, uint64(2), s.Version())
}

func TestSubscribeKeepsLatestOnly(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Publish(Artifact{Name: "first"})
	s.Publish(Artifact{Name: "second"})
	s.Publish(Artifact{Name: "third"})

	got := <-ch
	assert.Equal(t, "third", got.Name)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra value %q", extra.Name)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic on the closed channel.
	assert.NotPanics(t, func() { s.Publish(Artifact{Name: "x"}) })
}

func TestConcurrentPublish(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Publish(Artifact{Name: "n", Source: SourceInput})
			s.Current()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), s.Version())
	got := <-ch
	assert.Equal(t, SourceInput, got.Source)
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "push", SourcePush.String())
	assert.Equal(t, "input", SourceInput.String())
	assert.Equal(t, "cached", SourceCached.String())
	assert.Equal(t, "unknown", Source(9).String())
}
