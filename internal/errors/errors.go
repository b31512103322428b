// Package errors defines the domain error set. The message of each sentinel
// is a stable reason key, not display text: presentation layers are expected
// to localize from the key.
package errors

import (
	"errors"
)

var (
	// Validation failures. Terminal, no mutation attempted.
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidAccountNumber = errors.New("invalid_account_number")
	ErrInvalidDescription   = errors.New("invalid_description")
	ErrInvalidAccountType   = errors.New("invalid_account_type")

	// Resolution failures.
	ErrSourceNotFound      = errors.New("source_account_not_found")
	ErrDestinationNotFound = errors.New("destination_account_not_found")
	ErrAccountNotFound     = errors.New("account_not_found")
	ErrUserNotFound        = errors.New("user_not_found")
	ErrSameAccount         = errors.New("same_account")

	// Ledger invariant failures.
	ErrInsufficientFunds    = errors.New("insufficient_funds")
	ErrDuplicateAccountType = errors.New("duplicate_account_type")

	// ErrAccountNumberTaken signals a generated-number collision; the account
	// service regenerates and retries. Never surfaced to callers.
	ErrAccountNumberTaken = errors.New("account_number_taken")

	// Storage-level outcomes. Conflict is retried by the engines a bounded
	// number of times before it reaches the caller.
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence_error")

	// Authentication collaborator.
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountLocked      = errors.New("account_locked")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrEmailTaken         = errors.New("email_taken")
	ErrWeakPassword       = errors.New("weak_password")
	ErrForbidden          = errors.New("forbidden")
)
