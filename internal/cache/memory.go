package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryStore implements Store in process memory. It backs local
// development without a Redis server and gives tests a deterministic
// cache. Expired entries are dropped lazily on access.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	text      string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory Store
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (s *memoryStore) Get(ctx context.Context, key Key) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key.String()]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.text, true, nil
}

func (s *memoryStore) Exists(ctx context.Context, key Key) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *memoryStore) Set(ctx context.Context, key Key, text string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.String()] = memoryEntry{
		text:      text,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *memoryStore) ListForUser(ctx context.Context, userID string) ([]Entry, error) {
	prefix := "transcript:" + userID + ":"
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []Entry
	for key, entry := range s.entries {
		if !strings.HasPrefix(key, prefix) || now.After(entry.expiresAt) {
			continue
		}
		entries = append(entries, Entry{
			VideoID: strings.TrimPrefix(key, prefix),
			Text:    entry.text,
		})
	}
	return entries, nil
}

func (s *memoryStore) DeleteForUser(ctx context.Context, userID string) (int, error) {
	prefix := "transcript:" + userID + ":"
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key, entry := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		delete(s.entries, key)
		if !now.After(entry.expiresAt) {
			deleted++
		}
	}
	return deleted, nil
}
