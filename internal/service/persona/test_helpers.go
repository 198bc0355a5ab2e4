package persona

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cre8hub/persona-pipeline/internal/cache"
	"github.com/cre8hub/persona-pipeline/internal/model"
)

// mockStore is a mock implementation of cache.Store for tests that
// must assert the cache is never touched
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key cache.Key) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStore) Exists(ctx context.Context, key cache.Key) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, key cache.Key, text string, ttl time.Duration) error {
	args := m.Called(ctx, key, text, ttl)
	return args.Error(0)
}

func (m *mockStore) ListForUser(ctx context.Context, userID string) ([]cache.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cache.Entry), args.Error(1)
}

func (m *mockStore) DeleteForUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// mockLister is a mock implementation of youtube.Lister for testing
type mockLister struct {
	mock.Mock
}

func (m *mockLister) ListRecentVideos(ctx context.Context, channelID string, maxCount int) ([]string, error) {
	args := m.Called(ctx, channelID, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// mockWarmer is a mock implementation of warmer.Warmer for testing
type mockWarmer struct {
	mock.Mock
}

func (m *mockWarmer) Warm(ctx context.Context, userID string, videoIDs []string) (int, error) {
	args := m.Called(ctx, userID, videoIDs)
	return args.Int(0), args.Error(1)
}

// mockGateway is a mock implementation of Gateway for testing
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ExtractPersona(ctx context.Context, transcripts []model.TranscriptRecord) (*model.PersonaDocument, error) {
	args := m.Called(ctx, transcripts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PersonaDocument), args.Error(1)
}

// mockUserRepository is a mock implementation of user.Repository for testing
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) UpdatePersona(ctx context.Context, userID string, doc *model.PersonaDocument, meta model.ExtractionMeta) error {
	args := m.Called(ctx, userID, doc, meta)
	return args.Error(0)
}

func (m *mockUserRepository) GetExtractionMeta(ctx context.Context, userID string) (bool, *model.ExtractionMeta, error) {
	args := m.Called(ctx, userID)
	if args.Get(1) == nil {
		return args.Bool(0), nil, args.Error(2)
	}
	return args.Bool(0), args.Get(1).(*model.ExtractionMeta), args.Error(2)
}
