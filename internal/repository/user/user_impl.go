package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
	"github.com/cre8hub/persona-pipeline/internal/model"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// userRepository implements Repository using PostgreSQL
type userRepository struct {
	pool Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool Pool) Repository {
	return &userRepository{
		pool: pool,
	}
}

// Create creates a new user record
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := "INSERT INTO users (id, email, name) VALUES ($1, $2, $3)"
	_, err := r.pool.Exec(ctx, sql, user.ID, user.Email, user.Name)
	if err != nil {
		return handlePostgreSQLError(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID, including any stored persona
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	sql := `SELECT id, email, name, persona, persona_method, persona_extracted_at, persona_channel_id, persona_video_count
	        FROM users WHERE id = $1`
	row := r.pool.QueryRow(ctx, sql, id)

	var (
		user        model.User
		personaJSON []byte
		method      *string
		extractedAt *time.Time
		channelID   *string
		videoCount  *int
	)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &personaJSON, &method, &extractedAt, &channelID, &videoCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "user not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get user")
	}

	if len(personaJSON) > 0 {
		var doc model.PersonaDocument
		if err := json.Unmarshal(personaJSON, &doc); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to decode stored persona")
		}
		user.Persona = &doc
	}

	if method != nil && extractedAt != nil {
		meta := model.ExtractionMeta{
			Method:      *method,
			ExtractedAt: *extractedAt,
		}
		if channelID != nil {
			meta.ChannelID = *channelID
		}
		if videoCount != nil {
			meta.VideoCount = *videoCount
		}
		user.Meta = &meta
	}

	return &user, nil
}

// UpdatePersona replace-writes the persona document and extraction metadata
func (r *userRepository) UpdatePersona(ctx context.Context, userID string, doc *model.PersonaDocument, meta model.ExtractionMeta) error {
	personaJSON, err := json.Marshal(doc)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode persona")
	}

	sql := `UPDATE users
	        SET persona = $2::jsonb,
	            persona_method = $3,
	            persona_extracted_at = $4,
	            persona_channel_id = $5,
	            persona_video_count = $6
	        WHERE id = $1`
	tag, err := r.pool.Exec(ctx, sql, userID, string(personaJSON), meta.Method, meta.ExtractedAt, meta.ChannelID, meta.VideoCount)
	if err != nil {
		return handlePostgreSQLError(err, "failed to update persona")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	return nil
}

// GetExtractionMeta reports whether the user has a persona and returns
// its extraction metadata when present
func (r *userRepository) GetExtractionMeta(ctx context.Context, userID string) (bool, *model.ExtractionMeta, error) {
	sql := `SELECT persona IS NOT NULL, persona_method, persona_extracted_at, persona_channel_id, persona_video_count
	        FROM users WHERE id = $1`
	row := r.pool.QueryRow(ctx, sql, userID)

	var (
		hasPersona  bool
		method      *string
		extractedAt *time.Time
		channelID   *string
		videoCount  *int
	)
	err := row.Scan(&hasPersona, &method, &extractedAt, &channelID, &videoCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, apperrors.Wrap(err, apperrors.CodeNotFound, "user not found")
		}
		return false, nil, handlePostgreSQLError(err, "failed to get extraction metadata")
	}

	if method == nil || extractedAt == nil {
		return hasPersona, nil, nil
	}

	meta := model.ExtractionMeta{
		Method:      *method,
		ExtractedAt: *extractedAt,
	}
	if channelID != nil {
		meta.ChannelID = *channelID
	}
	if videoCount != nil {
		meta.VideoCount = *videoCount
	}
	return hasPersona, &meta, nil
}
