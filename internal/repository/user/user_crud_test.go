package user

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
	"github.com/cre8hub/persona-pipeline/internal/model"
)

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		user    *model.User
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr bool
	}{
		{
			name: "successful creation",
			user: &model.User{
				ID:    "user-1",
				Email: "creator@example.com",
				Name:  "Creator",
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO users").
					WithArgs("user-1", "creator@example.com", "Creator").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			wantErr: false,
		},
		{
			name: "database error",
			user: &model.User{
				ID:    "user-1",
				Email: "creator@example.com",
				Name:  "Creator",
			},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO users").
					WithArgs("user-1", "creator@example.com", "Creator").
					WillReturnError(assert.AnError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setup(mock)

			repo := NewRepository(mock)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err = repo.Create(ctx, tt.user)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	extractedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("user with persona", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		method := "youtube_channel"
		channelID := "UCabc123"
		videoCount := 5
		personaJSON := []byte(`{"communicationStyle":"casual","personalityTraits":["energetic"]}`)

		mock.ExpectQuery("SELECT id, email, name, persona").
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "email", "name", "persona", "persona_method", "persona_extracted_at", "persona_channel_id", "persona_video_count",
			}).AddRow("user-1", "creator@example.com", "Creator", personaJSON, &method, &extractedAt, &channelID, &videoCount))

		repo := NewRepository(mock)
		user, err := repo.GetByID(context.Background(), "user-1")
		require.NoError(t, err)

		assert.Equal(t, "user-1", user.ID)
		require.NotNil(t, user.Persona)
		assert.Equal(t, "casual", user.Persona.CommunicationStyle)
		assert.Equal(t, []string{"energetic"}, user.Persona.PersonalityTraits)
		require.NotNil(t, user.Meta)
		assert.Equal(t, "youtube_channel", user.Meta.Method)
		assert.Equal(t, "UCabc123", user.Meta.ChannelID)
		assert.Equal(t, 5, user.Meta.VideoCount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user without persona", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, name, persona").
			WithArgs("user-2").
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "email", "name", "persona", "persona_method", "persona_extracted_at", "persona_channel_id", "persona_video_count",
			}).AddRow("user-2", "new@example.com", "New User", []byte(nil), (*string)(nil), (*time.Time)(nil), (*string)(nil), (*int)(nil)))

		repo := NewRepository(mock)
		user, err := repo.GetByID(context.Background(), "user-2")
		require.NoError(t, err)

		assert.Nil(t, user.Persona)
		assert.Nil(t, user.Meta)
	})

	t.Run("user not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, name, persona").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		repo := NewRepository(mock)
		_, err = repo.GetByID(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}

func TestUserRepository_UpdatePersona(t *testing.T) {
	extractedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	doc := &model.PersonaDocument{
		CommunicationStyle: "enthusiastic",
		PersonalityTraits:  []string{"curious"},
	}
	meta := model.ExtractionMeta{
		Method:      model.ExtractionMethodChannel,
		ExtractedAt: extractedAt,
		ChannelID:   "UCabc123",
		VideoCount:  3,
	}

	t.Run("successful replace-write", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE users").
			WithArgs("user-1", pgxmock.AnyArg(), "youtube_channel", extractedAt, "UCabc123", 3).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewRepository(mock)
		err = repo.UpdatePersona(context.Background(), "user-1", doc, meta)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE users").
			WithArgs("missing", pgxmock.AnyArg(), "youtube_channel", extractedAt, "UCabc123", 3).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewRepository(mock)
		err = repo.UpdatePersona(context.Background(), "missing", doc, meta)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}

func TestUserRepository_GetExtractionMeta(t *testing.T) {
	extractedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("persona present", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		method := "manual"
		mock.ExpectQuery("SELECT persona IS NOT NULL").
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{
				"has_persona", "persona_method", "persona_extracted_at", "persona_channel_id", "persona_video_count",
			}).AddRow(true, &method, &extractedAt, (*string)(nil), (*int)(nil)))

		repo := NewRepository(mock)
		hasPersona, meta, err := repo.GetExtractionMeta(context.Background(), "user-1")
		require.NoError(t, err)
		assert.True(t, hasPersona)
		require.NotNil(t, meta)
		assert.Equal(t, "manual", meta.Method)
		assert.Equal(t, extractedAt, meta.ExtractedAt)
	})

	t.Run("no persona yet", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT persona IS NOT NULL").
			WithArgs("user-2").
			WillReturnRows(pgxmock.NewRows([]string{
				"has_persona", "persona_method", "persona_extracted_at", "persona_channel_id", "persona_video_count",
			}).AddRow(false, (*string)(nil), (*time.Time)(nil), (*string)(nil), (*int)(nil)))

		repo := NewRepository(mock)
		hasPersona, meta, err := repo.GetExtractionMeta(context.Background(), "user-2")
		require.NoError(t, err)
		assert.False(t, hasPersona)
		assert.Nil(t, meta)
	})
}
