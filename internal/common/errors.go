// Package common defines sentinel errors and small helpers shared by the
// tikbook storage, session and coordinator layers. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not logged in")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid session token")

	// Ledger errors.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// Validation errors.
	ErrValidationMissing = errors.New("required field missing")
	ErrInvalidPatch      = errors.New("invalid patch")
	ErrDuplicateIdentity = errors.New("email or username already taken")

	// Request workflow errors.
	ErrAlreadyPending    = errors.New("a request is already pending")
	ErrInvalidTransition = errors.New("request is not pending")
)
