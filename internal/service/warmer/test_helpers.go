package warmer

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cre8hub/persona-pipeline/internal/cache"
)

// mockFetcher is a mock implementation of transcript.Fetcher for testing
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, videoID string) (string, bool, error) {
	args := m.Called(ctx, videoID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// countingFetcher tracks the maximum number of concurrent Fetch calls
type countingFetcher struct {
	mu            sync.Mutex
	inFlight      int
	maxInFlight   int
	fetchDuration time.Duration
}

func (f *countingFetcher) Fetch(ctx context.Context, videoID string) (string, bool, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	time.Sleep(f.fetchDuration)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	return "transcript for " + videoID, true, nil
}

// failingStore wraps a Store and fails selected operations, simulating
// an unreachable cache backend
type failingStore struct {
	cache.Store
	existsErr error
	setErr    error
}

func (s *failingStore) Exists(ctx context.Context, key cache.Key) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.Store.Exists(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key cache.Key, text string, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.Store.Set(ctx, key, text, ttl)
}
