package postgres

import (
	"context"
	"database/sql/driver"
	"strings"

	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes we classify.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	// SQLite reports "UNIQUE constraint failed: users.email".
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func isNotNullConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgNotNullViolation
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null")
}

// isTransient reports whether a failed call may succeed if repeated. parent is the
// caller's context: its own cancellation is never worth retrying.
func isTransient(parent context.Context, err error) bool {
	if parent.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	return pgconn.Timeout(err) || pgconn.SafeToRetry(err)
}

// duplicateMessage names the field whose unique index rejected the write.
func duplicateMessage(err error) string {
	subject := strings.ToLower(err.Error())

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		subject = strings.ToLower(pgErr.ConstraintName + " " + pgErr.Detail)
	}

	switch {
	case strings.Contains(subject, "email"):
		return "Email already exists"
	case strings.Contains(subject, "username"):
		return "Username already exists"
	default:
		return domainerrors.ErrDuplicateResource.Message()
	}
}

// translateWriteError converts a failed insert/update into a domain error.
func translateWriteError(parent context.Context, err error, details string) error {
	switch {
	case isUniqueConstraintViolation(err):
		return domainerrors.ErrDuplicateResource.WithMessage(duplicateMessage(err)).WithDetails(err.Error())
	case isNotNullConstraintViolation(err):
		return domainerrors.ErrValidationFailed.WithMessage("Missing required user information").WithDetails(err.Error())
	case isTransient(parent, err):
		return domainerrors.NewRetryableDatabaseError(err, details)
	default:
		return domainerrors.NewDatabaseExecuteError(err, details)
	}
}
