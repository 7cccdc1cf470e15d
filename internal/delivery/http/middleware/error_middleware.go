package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/delivery/http/response"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/errors"
	logs "accounts/internal/infra/log"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware renders every error as {"errors":[...]} and reports unexpected failures.
type ErrorMiddleware struct {
	logger   *slog.Logger
	reporter *logs.Reporter
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, reporter *logs.Reporter) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:   logger,
		reporter: reporter,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if domainerrors.IsUnexpected(err) {
		m.logUnexpected(c, err)
	}

	// Accumulated errors carry every message collected for the request.
	var accErr *domainerrors.AccumulatedError
	if errors.As(err, &accErr) {
		_ = response.Accumulated(c, accErr)

		return
	}

	// AppError: 5xx messages are generic by construction, details are never sent.
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		_ = response.Errors(c, appErr.HTTPCode(), appErr.Message())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && httpErr.Code < http.StatusInternalServerError {
			message = msg
		}

		_ = response.Errors(c, httpErr.Code, message)

		return
	}

	_ = response.InternalServerError(c)
}

func (m *ErrorMiddleware) logUnexpected(c echo.Context, err error) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		return
	}

	req := c.Request()
	ctx := req.Context()

	deliverycontext.GetLoggerOrDefault(ctx, m.logger).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", req.URL.Path),
		slog.String("method", req.Method),
	)

	m.reporter.Report(ctx, err, map[string]string{
		"path":       req.URL.Path,
		"method":     req.Method,
		"request_id": deliverycontext.GetRequestID(c),
	})
}
