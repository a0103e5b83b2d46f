package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sukanya1426/Voice-Agent/internal/domain"
)

const janitorInterval = 1 * time.Minute

type entry struct {
	transcript domain.Transcript
	touched    time.Time
}

// MemoryStore implements TranscriptStore with an in-process map.
// Transcripts die with the call; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory transcript store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get retrieves the transcript for a session.
func (s *MemoryStore) Get(_ context.Context, sessionRef string) (domain.Transcript, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[sessionRef]
	return e.transcript, ok
}

// Put replaces the transcript for a session.
func (s *MemoryStore) Put(_ context.Context, sessionRef string, transcript domain.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionRef] = entry{transcript: transcript, touched: s.now()}
}

// Delete removes the transcript for a session.
func (s *MemoryStore) Delete(_ context.Context, sessionRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionRef)
}

// Len returns the number of stored transcripts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartJanitor launches a background sweeper that drops transcripts idle
// longer than ttl. Phone sessions delete their transcript on teardown;
// the janitor exists for web chat sessions, which have no hangup.
func (s *MemoryStore) StartJanitor(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(janitorInterval)

	go func() {
		defer ticker.Stop()
		slog.Info("Transcript janitor started", "interval", janitorInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if swept := s.sweep(ttl); swept > 0 {
					slog.Info("Transcript janitor swept idle sessions", "count", swept)
				}
			case <-ctx.Done():
				slog.Info("Transcript janitor shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func (s *MemoryStore) sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for ref, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, ref)
			swept++
		}
	}
	return swept
}
