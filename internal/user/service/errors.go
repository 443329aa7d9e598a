package service

import (
	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
)

var (
	ErrEmailTaken = commonerrors.NewConflictError(
		"EMAIL_TAKEN",
		"User exists already, please login instead.",
	)

	ErrInvalidCredentials = commonerrors.NewAuthError(
		"INVALID_CREDENTIALS",
		"Could not identify user, credentials seem to be wrong.",
	)
)
