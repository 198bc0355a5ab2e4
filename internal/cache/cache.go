package cache

import (
	"context"
	"time"
)

// Key identifies one cached transcript. Carrying the structured form
// through the API avoids reconstituting user and video IDs from key
// strings.
type Key struct {
	UserID  string
	VideoID string
}

// String renders the key in the backend keyspace format
func (k Key) String() string {
	return "transcript:" + k.UserID + ":" + k.VideoID
}

// userPattern matches every transcript key belonging to one user
func userPattern(userID string) string {
	return "transcript:" + userID + ":*"
}

// Entry is one cached transcript returned from a per-user listing
type Entry struct {
	VideoID string
	Text    string
}

// Store defines transcript cache operations. Entries carry a TTL and
// are treated as immutable until expiry: callers verify Exists before
// fetching so each key is written at most once per TTL window.
type Store interface {
	// Get retrieves a transcript. The second return value is false on a miss.
	Get(ctx context.Context, key Key) (string, bool, error)

	// Exists reports whether a transcript is cached for the key
	Exists(ctx context.Context, key Key) (bool, error)

	// Set stores a transcript with the given TTL, overwriting unconditionally
	Set(ctx context.Context, key Key, text string, ttl time.Duration) error

	// ListForUser returns every cached transcript for the user.
	// Implemented as a pattern scan over the shared keyspace; fine for
	// moderate per-user video counts but would need a secondary
	// per-user index at large scale.
	ListForUser(ctx context.Context, userID string) ([]Entry, error)

	// DeleteForUser removes all cached transcripts for the user and
	// returns how many were deleted
	DeleteForUser(ctx context.Context, userID string) (int, error)
}
