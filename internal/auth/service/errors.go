package service

import (
	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
)

var (
	ErrInvalidToken = commonerrors.NewAuthError(
		"INVALID_TOKEN",
		"Authentication failed!",
	)

	ErrTokenIssue = commonerrors.NewStoreError(
		"TOKEN_ISSUE_FAILED",
		"Could not issue session token, please try again later.",
	)
)
