package user

import (
	"context"

	"github.com/cre8hub/persona-pipeline/internal/model"
)

// Repository defines operations for User persistence
type Repository interface {
	// Create creates a new user record
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by ID, including any stored persona
	GetByID(ctx context.Context, id string) (*model.User, error)

	// UpdatePersona replace-writes the persona document and its
	// extraction metadata on the user record. The previous persona is
	// never merged, always fully replaced.
	UpdatePersona(ctx context.Context, userID string, doc *model.PersonaDocument, meta model.ExtractionMeta) error

	// GetExtractionMeta reports whether the user has a persona and
	// returns its extraction metadata when present
	GetExtractionMeta(ctx context.Context, userID string) (bool, *model.ExtractionMeta, error)
}
