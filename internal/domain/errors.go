package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// FetchError wraps a failed read against the remote review source. The prior
// cached value (if any) stays available, marked stale.
type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Key, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// MutationError wraps a rejected visibility toggle. The cache is left
// untouched; callers must not assume the toggle applied.
type MutationError struct {
	ReviewID int64
	Err      error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("toggle review %d: %v", e.ReviewID, e.Err)
}
func (e *MutationError) Unwrap() error { return e.Err }

// ValidationError rejects malformed filter/sort input at the boundary,
// before it reaches the filter engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }
