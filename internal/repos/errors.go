package repos

import (
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Schema violations surface synchronously as engine constraint errors; this
// package maps them onto a small domain taxonomy so callers can branch with
// errors.Is without knowing driver codes.
var (
	// ErrReferentialIntegrity is a foreign-key violation: the referenced
	// row does not exist, or a delete would orphan dependents.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrUniqueViolation is a duplicate key on a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrNumericOverflow means a decimal exceeded its declared precision.
	ErrNumericOverflow = errors.New("numeric precision overflow")

	// ErrNotFound is returned when a row cannot be read. A miss right after
	// a successful write signals a transaction-visibility bug and must never
	// be swallowed.
	ErrNotFound = errors.New("row not found")

	// ErrInsufficientStock means an order asked for more units than storage
	// currently holds.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// mapErr converts driver-level errors into the package taxonomy, keeping the
// original error in the chain.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", ErrReferentialIntegrity, err)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		}
	}
	return err
}
