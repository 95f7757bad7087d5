package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/meridian-hr/meridian/internal/shared"
)

func TestMapInsertErrorUniqueViolation(t *testing.T) {
	err := mapInsertError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestMapInsertErrorWrappedUniqueViolation(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505"}
	err := mapInsertError(fmt.Errorf("insert account: %w", cause))
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestMapInsertErrorOtherCodePassesThrough(t *testing.T) {
	cause := &pgconn.PgError{Code: "23503"}
	err := mapInsertError(cause)
	assert.NotErrorIs(t, err, shared.ErrDuplicateEmail)
	assert.ErrorIs(t, err, cause)
}

func TestMapInsertErrorPlainErrorPassesThrough(t *testing.T) {
	cause := errors.New("connection reset")
	assert.ErrorIs(t, mapInsertError(cause), cause)
}
