package commonerrors

import "net/http"

var (
	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"An unknown error occurred!",
	)

	ErrRouteNotFound = NewNotFoundError(
		"ROUTE_NOT_FOUND",
		"Could not find this route.",
	)

	ErrMethodNotAllowed = NewDomainError(
		"METHOD_NOT_ALLOWED",
		CategoryValidation,
		http.StatusMethodNotAllowed,
		"Method not allowed.",
	)

	ErrInvalidJSON = NewDomainError(
		"INVALID_JSON",
		CategoryValidation,
		http.StatusBadRequest,
		"Invalid JSON body.",
	)

	ErrInvalidInput = NewValidationError(
		"INVALID_INPUT",
		"Invalid inputs passed, please check your data.",
	)

	ErrAuthenticationFailed = NewAuthError(
		"AUTHENTICATION_FAILED",
		"Authentication failed!",
	)

	ErrRequestTooLarge = NewDomainError(
		"REQUEST_TOO_LARGE",
		CategoryValidation,
		http.StatusRequestEntityTooLarge,
		"Request body too large.",
	)

	ErrStore = NewStoreError(
		"DATABASE_ERROR",
		"Something went wrong, please try again later.",
	)

	ErrUserNotFound = NewNotFoundError(
		"USER_NOT_FOUND",
		"Could not find user for the provided id.",
	)
)
