package repositories

import (
	"context"

	"github.com/MKH354/hutangku/internal/core/domain"
)

// SnapshotUpdateFunc receives the current remote snapshot for a sync key.
// exists is false for a brand-new sync key with no prior data; that is an
// empty ledger, not an error.
type SnapshotUpdateFunc func(snapshot *domain.Ledger, exists bool)

// SnapshotStore is the remote document store a ledger is synchronized
// through. One sync key maps to exactly one opaque document.
type SnapshotStore interface {
	// Write durably stores the full snapshot for the sync key. Writes are
	// at-most-once from the caller's point of view: a failure is reported,
	// never retried automatically, and never rolls back in-memory state.
	Write(ctx context.Context, syncKey string, snapshot domain.Ledger) error

	// Subscribe registers a push feed for the sync key. The callback fires
	// once with the current state before Subscribe returns, then on every
	// subsequent remote change. The returned function cancels the
	// subscription.
	Subscribe(ctx context.Context, syncKey string, onUpdate SnapshotUpdateFunc) (func(), error)
}
