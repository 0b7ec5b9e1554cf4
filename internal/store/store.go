package store

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadySeen is returned by MarkSeen when a listing id has already been
// committed. Callers treat it as control flow, not a failure.
var ErrAlreadySeen = errors.New("listing already seen")

// ErrTargetNotFound is returned by RemoveTarget for ids that do not exist,
// so the operator surface can distinguish "removed" from "nothing happened".
var ErrTargetNotFound = errors.New("target not found")

// Target is a tracked search-page URL. Ids are assigned on insertion and
// stay stable for the target's lifetime; they are never renumbered.
type Target struct {
	ID  int64
	URL string
}

// Store is the durable state owned by the process: the tracked-target
// registry and the dedup record of seen listings. It must tolerate
// concurrent access from the poll loop and the CLI surface; the primary key
// on the listing id is the only synchronization primitive required.
type Store interface {
	// AddTarget inserts a search URL and returns its assigned id.
	AddTarget(ctx context.Context, url string) (int64, error)
	// ListTargets returns all targets in insertion order (id ascending).
	ListTargets(ctx context.Context) ([]Target, error)
	// RemoveTarget deletes a target by id, or returns ErrTargetNotFound.
	RemoveTarget(ctx context.Context, id int64) error

	// MarkSeen records a listing id with insert-if-absent semantics. It is
	// the commit point for "this listing has been notified": exactly one
	// caller ever gets a nil error for a given id, all later calls get
	// ErrAlreadySeen. Records are never updated or deleted.
	MarkSeen(ctx context.Context, listingID, link string, firstSeen time.Time) error

	Close() error
}
