package food

import (
	"github.com/google/uuid"

	apperrors "github.com/homemadefood/backoffice/pkg/errors"
)

// RequireID rejects the empty identifier, which stands for "no selection".
func RequireID(argument string, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.NewInvalidArgumentError(argument, "must not be the empty identifier")
	}
	return nil
}

// RequireName rejects an empty name
func RequireName(argument, name string) error {
	if name == "" {
		return apperrors.NewInvalidArgumentError(argument, "must not be empty")
	}
	return nil
}

// RequireEntity rejects a nil entity pointer
func RequireEntity[T any](argument string, entity *T) error {
	if entity == nil {
		return apperrors.NewInvalidArgumentError(argument, "must not be nil")
	}
	return nil
}
