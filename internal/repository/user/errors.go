package user

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
)

// handlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func handlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperrors.Wrap(pgErr, apperrors.CodeConflict, "user with this email already exists")
		}
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "user with this ID already exists")

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, "required field is missing")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	default:
		message := "database error (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}
