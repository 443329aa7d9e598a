package service

import (
	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
)

var (
	ErrPlaceNotFound = commonerrors.NewNotFoundError(
		"PLACE_NOT_FOUND",
		"Could not find place for the provided id.",
	)

	ErrUserPlacesNotFound = commonerrors.NewNotFoundError(
		"USER_PLACES_NOT_FOUND",
		"Could not find places for the provided user id.",
	)

	ErrCreatorNotFound = commonerrors.NewNotFoundError(
		"CREATOR_NOT_FOUND",
		"Could not find user for provided id.",
	)

	ErrNotPlaceOwner = commonerrors.NewAuthorizationError(
		"NOT_PLACE_OWNER",
		"You are not allowed to edit this place.",
	)
)
