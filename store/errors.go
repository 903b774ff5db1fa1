package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("store: document not found")
	ErrExists   = errors.New("store: document already exists")
	ErrConflict = errors.New("store: revision conflict")
	// ErrRejected means the provider refused the write (e.g. admission
	// control under memory pressure). Nothing was stored.
	ErrRejected = errors.New("store: write rejected by provider")
)

// OpError records the failed operation and document id.
type OpError struct {
	Op  string // "create", "read", "update", "delete"
	ID  string
	Err error
}

func (e *OpError) Error() string { return fmt.Sprintf("store: %s %q: %v", e.Op, e.ID, e.Err) }
func (e *OpError) Unwrap() error { return e.Err }
