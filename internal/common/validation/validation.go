package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	validator "github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("password", isPassword); err != nil {
		panic(err)
	}

	return v
}

// Struct returns ErrInvalidInput carrying the validator's field errors
// as its cause.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return commonerrors.ErrInvalidInput.WithCause(err)
	}
	return nil
}

// FailedFields lists the json names of the fields that did not pass.
func FailedFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func isPassword(fl validator.FieldLevel) bool {
	hasLetter := false
	hasDigit := false

	for _, r := range fl.Field().String() {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}

	return false
}
