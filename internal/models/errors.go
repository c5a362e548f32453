package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("record not found")

// ConflictError represents a unique constraint violation.
type ConflictError struct {
	Constraint string
	Message    string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unique constraint %s violated", e.Constraint)
}

// IsUniqueViolation checks if err is a PostgreSQL unique_violation and
// returns it as a ConflictError, or nil otherwise. When constraint is non-empty
// only violations of a constraint containing that name match.
func IsUniqueViolation(err error, constraint string) *ConflictError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE 23505 = unique_violation
		if pgErr.Code != "23505" {
			return nil
		}
		name := strings.ToLower(pgErr.ConstraintName)
		if constraint != "" && !strings.Contains(name, strings.ToLower(constraint)) {
			return nil
		}
		return &ConflictError{Constraint: pgErr.ConstraintName, Message: pgErr.Message}
	}

	// Fallback for drivers that only surface the message
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") && (constraint == "" || strings.Contains(msg, strings.ToLower(constraint))) {
		return &ConflictError{Constraint: constraint}
	}
	return nil
}
