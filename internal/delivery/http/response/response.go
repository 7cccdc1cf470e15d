// Package response writes the JSON bodies returned by the HTTP delivery.
package response

import (
	"net/http"

	domainerrors "accounts/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Success writes data as the response body.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

// OK writes data with a 200 status.
func OK(c echo.Context, data any) error {
	return Success(c, http.StatusOK, data)
}

// Errors writes the single error shape used by every failure: {"errors":[...]}.
func Errors(c echo.Context, statusCode int, messages ...string) error {
	acc := domainerrors.NewAccumulator()
	for _, msg := range messages {
		acc.Add(msg)
	}

	return c.JSON(statusCode, acc.Response())
}

// Accumulated writes every message carried by err with its classification's status.
func Accumulated(c echo.Context, err *domainerrors.AccumulatedError) error {
	return c.JSON(err.HTTPCode(), err.Response())
}

// Unauthorized returns a 401 error
func Unauthorized(c echo.Context, message string) error {
	return Errors(c, http.StatusUnauthorized, message)
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, message string) error {
	return Errors(c, http.StatusBadRequest, message)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context) error {
	return Errors(c, http.StatusInternalServerError, domainerrors.ErrInternalError.Message())
}
