// Package store holds the gorm repositories for users, jobs and applications.
// Rows are returned as typed records; driver errors are mapped to ErrNotFound
// and ErrDuplicate at this boundary.
package store

import (
	"errors"
	"fmt"

	"github.com/diewo77/seeker/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps gorm/driver errors onto the package sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrDuplicate
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
