package domain

import (
	"errors"
	"fmt"
)

var (
	// Ledger errors
	ErrInvalidCurrency = errors.New("unknown currency code")
	ErrInvalidType     = errors.New("unknown transaction type")
	ErrInvalidDate     = errors.New("invalid calendar date")
	ErrNegativeAmount  = errors.New("amount must not be negative")

	// Rate table errors
	ErrInvalidRate = errors.New("rate must be positive")

	// Session errors
	ErrRemoteUnconfigured = errors.New("remote backend is not configured")
	ErrSessionClosed      = errors.New("session is closed")

	// Identity errors
	ErrInvalidToken = errors.New("invalid identity token")
	ErrExpiredToken = errors.New("identity token expired")

	// Backup errors
	ErrInvalidBackup = errors.New("invalid backup snapshot")
)

// RemoteWriteError reports a remote create/delete/merge-write that did not
// complete. The optimistic in-memory value, where one was applied, stays.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote write %s failed: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// PartialImportError reports a cloud import that stopped mid-way, leaving a
// subset of the incoming transactions persisted.
type PartialImportError struct {
	Imported int
	Total    int
	Err      error
}

func (e *PartialImportError) Error() string {
	return fmt.Sprintf("import applied %d of %d transactions: %v", e.Imported, e.Total, e.Err)
}

func (e *PartialImportError) Unwrap() error { return e.Err }
