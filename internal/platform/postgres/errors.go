package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kotoba/study-api/internal/store"
)

// SQLSTATE codes the stores react to.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// constraintErrors maps integrity violations to store sentinels.
var constraintErrors = map[string]error{
	uniqueViolationCode:     store.ErrDuplicate,
	foreignKeyViolationCode: store.ErrInvalidEntity,
	checkViolationCode:      store.ErrInvalidEntity,
	notNullViolationCode:    store.ErrInvalidEntity,
}

// MapError translates driver errors into store sentinels, keeping the original
// in the message. Unknown errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	pgErr, ok := asPgError(err)
	if !ok {
		return err
	}
	sentinel, known := constraintErrors[pgErr.Code]
	if !known {
		return err
	}

	detail := pgErr.ConstraintName
	if detail == "" {
		detail = pgErr.ColumnName
	}
	if detail == "" {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return fmt.Errorf("%w (%s): %v", sentinel, detail, err)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolationCode)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolationCode)
}

// MapUniqueViolation wraps a unique violation with specific, or with
// store.ErrDuplicate naming entity when specific is nil. Other errors pass
// through.
func MapUniqueViolation(err error, entity string, specific error) error {
	if !IsUniqueViolation(err) {
		return err
	}
	if specific != nil {
		return fmt.Errorf("%w: %v", specific, err)
	}
	return fmt.Errorf("%w: %s already exists: %v", store.ErrDuplicate, entity, err)
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == code
}
