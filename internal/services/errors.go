package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/seeker/validation"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrExpired            = errors.New("verification code expired")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError carries per-field violations and matches ErrValidation.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Violations extracts field violations from err, if any.
func Violations(err error) validation.Violations {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	return nil
}
