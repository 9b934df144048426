package app

import (
	"errors"

	"samplemeta/domain/core"
	apperrors "samplemeta/internal/errors"
)

// appError maps domain and storage errors onto application error codes.
// Anything unrecognised came from the repositories.
func appError(err error, message string) error {
	if err == nil {
		return nil
	}
	var existing *apperrors.AppError
	if errors.As(err, &existing) {
		return apperrors.Wrap(existing, message)
	}
	switch {
	case core.IsNotFoundError(err):
		return apperrors.NotFound(message, err)
	case core.IsSchemaMismatch(err):
		return apperrors.SchemaMismatch(message, err)
	case core.IsIOFailure(err):
		return apperrors.IOFailure(message, err)
	case errors.Is(err, core.ErrMalformedInput):
		return apperrors.MalformedInput(message, err)
	case core.IsInputError(err):
		invalid := apperrors.InvalidInput(message)
		invalid.Cause = err
		return invalid
	}
	return apperrors.DatabaseError(message, err)
}
