package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryAuth         ErrorCategory = "AUTH"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryExternal     ErrorCategory = "EXTERNAL"
	CategoryInternal     ErrorCategory = "INTERNAL"
)

// DomainError is the single error shape surfaced to the HTTP boundary.
// Message is safe to show to clients; the cause is for logs only.
type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithMessage(message string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches on code so that errors.Is keeps working after WithCause or
// WithMessage produced a copy of a sentinel.
func (e *domainError) Is(target error) bool {
	var other *domainError
	if !errors.As(target, &other) {
		return false
	}
	return e.code == other.code
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

func (e *domainError) WithMessage(message string) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  message,
		cause:    e.cause,
	}
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func NewValidationError(code, message string) DomainError {
	return NewDomainError(code, CategoryValidation, http.StatusUnprocessableEntity, message)
}

func NewAuthError(code, message string) DomainError {
	return NewDomainError(code, CategoryAuth, http.StatusUnauthorized, message)
}

func NewAuthorizationError(code, message string) DomainError {
	return NewDomainError(code, CategoryUnauthorized, http.StatusUnauthorized, message)
}

func NewNotFoundError(code, message string) DomainError {
	return NewDomainError(code, CategoryNotFound, http.StatusNotFound, message)
}

func NewConflictError(code, message string) DomainError {
	return NewDomainError(code, CategoryConflict, http.StatusUnprocessableEntity, message)
}

func NewGeocodeError(code, message string) DomainError {
	return NewDomainError(code, CategoryExternal, http.StatusUnprocessableEntity, message)
}

func NewStoreError(code, message string) DomainError {
	return NewDomainError(code, CategoryInternal, http.StatusInternalServerError, message)
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func HasCategory(err error, category ErrorCategory) bool {
	de, ok := AsDomainError(err)
	return ok && de.Category() == category
}
