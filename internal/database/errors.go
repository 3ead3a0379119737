package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested id does not resolve to a row.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a primary key or unique constraint violation.
	ErrConflict = errors.New("record already exists")

	// ErrConstraintViolation indicates a missing or invalid foreign key,
	// or another integrity constraint rejected the write.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrPoolExhausted indicates no connection became free in time.
	ErrPoolExhausted = errors.New("no database connection available")

	// ErrTransactionFailed covers any other failure inside a transaction.
	// The transaction has been rolled back.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Kind classifies err into one of the sentinel errors above. It returns nil
// for a nil error.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrConstraintViolation):
		return ErrConstraintViolation
	case errors.Is(err, ErrPoolExhausted):
		return ErrPoolExhausted
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return ErrConflict
		default:
			return ErrConstraintViolation
		}
	}
	return ErrTransactionFailed
}

// Wrap annotates err with the operation name and its kind so callers can
// match it with errors.Is while keeping the store's message.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := Kind(err)
	if errors.Is(err, kind) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
