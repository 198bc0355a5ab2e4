//go:build integration

package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
	"github.com/cre8hub/persona-pipeline/internal/model"
	"github.com/cre8hub/persona-pipeline/internal/repository/common"
)

// TestUserRepository_Integration tests the user repository with real PostgreSQL
func TestUserRepository_Integration(t *testing.T) {
	pool := common.SetupTestDB(t)
	repo := NewRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testUser := &model.User{
		ID:    "user-1",
		Email: "creator@example.com",
		Name:  "Creator",
	}

	t.Run("Create and GetByID", func(t *testing.T) {
		err := repo.Create(ctx, testUser)
		require.NoError(t, err)

		retrieved, err := repo.GetByID(ctx, testUser.ID)
		require.NoError(t, err)
		assert.Equal(t, testUser.ID, retrieved.ID)
		assert.Equal(t, testUser.Email, retrieved.Email)
		assert.Nil(t, retrieved.Persona)
		assert.Nil(t, retrieved.Meta)
	})

	t.Run("UpdatePersona replaces wholesale", func(t *testing.T) {
		first := &model.PersonaDocument{
			CommunicationStyle: "formal",
			PersonalityTraits:  []string{"precise", "calm"},
		}
		err := repo.UpdatePersona(ctx, testUser.ID, first, model.ExtractionMeta{
			Method:      model.ExtractionMethodChannel,
			ExtractedAt: time.Now().UTC(),
			ChannelID:   "UCabc123",
			VideoCount:  4,
		})
		require.NoError(t, err)

		second := &model.PersonaDocument{
			CommunicationStyle: "casual",
		}
		err = repo.UpdatePersona(ctx, testUser.ID, second, model.ExtractionMeta{
			Method:      model.ExtractionMethodManual,
			ExtractedAt: time.Now().UTC(),
		})
		require.NoError(t, err)

		retrieved, err := repo.GetByID(ctx, testUser.ID)
		require.NoError(t, err)
		require.NotNil(t, retrieved.Persona)
		assert.Equal(t, "casual", retrieved.Persona.CommunicationStyle)
		// Traits from the first persona must not survive the replace
		assert.Empty(t, retrieved.Persona.PersonalityTraits)
		require.NotNil(t, retrieved.Meta)
		assert.Equal(t, model.ExtractionMethodManual, retrieved.Meta.Method)
	})

	t.Run("GetExtractionMeta", func(t *testing.T) {
		hasPersona, meta, err := repo.GetExtractionMeta(ctx, testUser.ID)
		require.NoError(t, err)
		assert.True(t, hasPersona)
		require.NotNil(t, meta)
		assert.Equal(t, model.ExtractionMethodManual, meta.Method)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "nope")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

		err = repo.UpdatePersona(ctx, "nope", &model.PersonaDocument{}, model.ExtractionMeta{
			Method:      model.ExtractionMethodManual,
			ExtractedAt: time.Now().UTC(),
		})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}
