package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := Key{UserID: "user-1", VideoID: "v1"}

	// Miss before set
	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// Hit after set
	require.NoError(t, store.Set(ctx, key, "hello world", time.Hour))

	text, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello world", text)

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := Key{UserID: "user-1", VideoID: "v1"}

	require.NoError(t, store.Set(ctx, key, "short-lived", -time.Second))

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "expired entry should read as a miss")

	entries, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryStore_ListForUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, Key{UserID: "user-1", VideoID: "v1"}, "first", time.Hour))
	require.NoError(t, store.Set(ctx, Key{UserID: "user-1", VideoID: "v2"}, "second", time.Hour))
	require.NoError(t, store.Set(ctx, Key{UserID: "user-2", VideoID: "v3"}, "other user", time.Hour))

	entries, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byVideo := map[string]string{}
	for _, e := range entries {
		byVideo[e.VideoID] = e.Text
	}
	assert.Equal(t, "first", byVideo["v1"])
	assert.Equal(t, "second", byVideo["v2"])
}

func TestMemoryStore_DeleteForUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, Key{UserID: "user-1", VideoID: "v1"}, "first", time.Hour))
	require.NoError(t, store.Set(ctx, Key{UserID: "user-1", VideoID: "v2"}, "second", time.Hour))
	require.NoError(t, store.Set(ctx, Key{UserID: "user-2", VideoID: "v3"}, "kept", time.Hour))

	deleted, err := store.DeleteForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	entries, err := store.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Other user untouched
	entries, err = store.ListForUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Deleting again removes nothing
	deleted, err = store.DeleteForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}
