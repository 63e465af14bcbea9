// Package repository wraps GORM for all database access. Methods are
// context-threaded so request deadlines bound every query.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrUnavailable is returned when the database timed out or is locked.
	// Callers may retry; the service never retries on their behalf.
	ErrUnavailable = errors.New("storage unavailable")
)

// Repository wraps GORM for database operations.
type Repository struct {
	db *gorm.DB
}

// New creates a new Repository instance.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying GORM DB for direct access.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// wrapError converts GORM and driver errors to repository errors.
func wrapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, context.DeadlineExceeded):
		return ErrUnavailable
	case strings.Contains(err.Error(), "database is locked"):
		return ErrUnavailable
	}
	return err
}
