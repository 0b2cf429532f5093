// Package common defines shared constants and sentinel errors used across
// the identity service. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Login failure. One opaque value for both "no such account" and
	// "wrong password" so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token resolution errors. Kept distinct: expiry means "log in again",
	// a bad signature may mean tampering.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Third-party onboarding failed. Provider detail is logged server-side
	// and never carried by this value.
	ErrOnboarding = errors.New("bad onboarding details")

	// Sentinels the typed errors below unwrap to.
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation error")
)

// ConflictError reports a uniqueness violation on a single account field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError reports a structurally invalid value for a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
