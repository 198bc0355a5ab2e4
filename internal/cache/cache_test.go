package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "standard key",
			key:  Key{UserID: "user-1", VideoID: "dQw4w9WgXcQ"},
			want: "transcript:user-1:dQw4w9WgXcQ",
		},
		{
			name: "mongo-style object ID",
			key:  Key{UserID: "64a1f0c2e4b0a1b2c3d4e5f6", VideoID: "abc123"},
			want: "transcript:64a1f0c2e4b0a1b2c3d4e5f6:abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestVideoIDFromKey(t *testing.T) {
	assert.Equal(t, "dQw4w9WgXcQ", videoIDFromKey("transcript:user-1:dQw4w9WgXcQ"))
	assert.Equal(t, "plain", videoIDFromKey("plain"))
}

func TestUserPattern(t *testing.T) {
	assert.Equal(t, "transcript:user-1:*", userPattern("user-1"))
}
