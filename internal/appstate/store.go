// Package appstate holds the image artifact shared between the ingest
// goroutines and the rest of the application.
package appstate

import (
	"sync"
	"time"
)

// Source tells where an artifact came from.
type Source int

const (
	SourcePush   Source = iota // Push channel event
	SourceInput                // Input image check
	SourceCached               // Cached image fetched at startup
)

func (s Source) String() string {
	switch s {
	case SourcePush:
		return "push"
	case SourceInput:
		return "input"
	case SourceCached:
		return "cached"
	default:
		return "unknown"
	}
}

// Artifact is a received, decoded image.
type Artifact struct {
	Name       string
	ByteLength int
	MIMEType   string
	Bytes      []byte
	Width      int
	Height     int
	Source     Source
	ReceivedAt time.Time
}

// Store keeps the most recent artifact. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	current *Artifact
	version uint64
	subs    map[int]chan Artifact
	nextID  int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan Artifact)}
}

// Publish replaces the current artifact. The previous value is dropped,
// never merged.
func (s *Store) Publish(a Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = &a
	s.version++

	for _, ch := range s.subs {
		// Keep only the latest value in each subscriber's buffer.
		select {
		case <-ch:
		default:
		}
		ch <- a
	}
}

// Current returns the latest artifact, if any.
func (s *Store) Current() (Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Artifact{}, false
	}
	return *s.current, true
}

// Version counts publishes since creation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel that always holds at most the latest
// published artifact, and a function that unsubscribes and closes it.
func (s *Store) Subscribe() (<-chan Artifact, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Artifact, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}
