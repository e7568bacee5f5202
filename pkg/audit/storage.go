package audit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested decision record does not exist.
var ErrNotFound = errors.New("decision record not found")

// Storage is the interface audit backends implement.
// All methods are safe for concurrent use.
type Storage interface {
	// Store persists a decision record.
	Store(ctx context.Context, record *DecisionRecord) error

	// Get returns the record with the given decision ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*DecisionRecord, error)

	// Query returns records matching the filter, newest first.
	Query(ctx context.Context, filter Filter) ([]*DecisionRecord, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes records evaluated before the cutoff and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// TrimToCount removes the oldest records until at most max remain
	// and returns how many were removed.
	TrimToCount(ctx context.Context, max int64) (int64, error)

	// Close releases backend resources.
	Close() error
}

// Filter narrows a Query. Zero values match everything.
type Filter struct {
	// Rule matches records for a single rule name.
	Rule string

	// Outcome matches "allow" or "deny"; empty matches both.
	Outcome string

	// Since and Until bound EvaluatedAt (inclusive since, exclusive until).
	Since time.Time
	Until time.Time

	// Limit caps the number of returned records (default 100).
	Limit int
}

// StorageError wraps a backend failure with the backend name and
// operation for diagnostics.
type StorageError struct {
	Backend string
	Op      string
	Err     error
}

// NewStorageError creates a storage error.
func NewStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Err: err}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}
