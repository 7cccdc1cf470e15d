// Package validator adapts go-playground/validator to echo and translates field failures
// into the human-readable messages returned to clients.
package validator

import (
	"reflect"
	"strconv"
	"strings"

	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/errors"

	"github.com/go-playground/validator/v10"
)

// fieldLabels names request fields the way clients see them in messages.
var fieldLabels = map[string]string{
	"email":     "Email",
	"username":  "Username",
	"password":  "Password",
	"password2": "Confirm password",
	"imageUrl":  "Image URL",
	"color":     "Color",
}

// CustomValidator implements echo.Validator and service.InputValidator.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON names.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
	// max counts runes; bcrypt limits the encoded length.
	_ = v.RegisterValidation("maxbytes", maxBytes)

	return &CustomValidator{validate: v}
}

// Validate checks i against its struct tags. Every failed field contributes one message,
// in field order, to an error classified as ErrValidationFailed.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domainerrors.NewAccumulatedError(domainerrors.ErrValidationFailed, "Invalid request body")
	}

	acc := domainerrors.NewAccumulator()
	for _, fe := range fieldErrs {
		acc.Add(message(fe))
	}

	return acc.Err(domainerrors.ErrValidationFailed)
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return len(fl.Field().String()) <= limit
}

func message(fe validator.FieldError) string {
	label := labelFor(fe.Field())

	switch fe.Tag() {
	case "required":
		return label + " field is required"
	case "email":
		return label + " is invalid"
	case "url":
		return label + " must be a valid URL"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "max":
		return label + " must be at most " + fe.Param() + " characters"
	case "maxbytes":
		return label + " must be at most " + fe.Param() + " bytes"
	case "eqfield":
		if fe.Field() == "password2" {
			return "Passwords must match"
		}

		return label + " must match " + labelFor(fe.Param())
	default:
		return label + " is invalid"
	}
}

func labelFor(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	if field == "" {
		return "Field"
	}

	return strings.ToUpper(field[:1]) + field[1:]
}
