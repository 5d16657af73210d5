// Package memory provides an in-process snapshot store. It backs tests and
// single-instance deployments that don't need durability.
package memory

import (
	"context"
	"sync"

	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/MKH354/hutangku/internal/core/ports/repositories"
)

// listener delivers snapshots to one subscriber in write order. Deliveries
// are coalesced: only the newest undelivered snapshot is kept, so a slow
// subscriber can never receive a stale document after a newer one, and a
// writer never blocks on delivery.
type listener struct {
	mu      sync.Mutex
	fn      repositories.SnapshotUpdateFunc
	pending *domain.Ledger
	wake    chan struct{}
	done    chan struct{}
}

func newListener(fn repositories.SnapshotUpdateFunc) *listener {
	l := &listener{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

// push replaces any undelivered snapshot with the newer one.
func (l *listener) push(snapshot domain.Ledger) {
	l.mu.Lock()
	l.pending = &snapshot
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *listener) run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
		}

		l.mu.Lock()
		snapshot := l.pending
		l.pending = nil
		l.mu.Unlock()

		if snapshot != nil {
			l.fn(snapshot, true)
		}
	}
}

func (l *listener) stop() {
	close(l.done)
}

// Store keeps one ledger document per sync key and fans writes out to
// subscribers through their ordered listeners.
type Store struct {
	mu        sync.Mutex
	docs      map[string]domain.Ledger
	listeners map[string]map[int]*listener
	nextID    int
}

// NewStore creates an empty in-memory snapshot store.
func NewStore() *Store {
	return &Store{
		docs:      make(map[string]domain.Ledger),
		listeners: make(map[string]map[int]*listener),
	}
}

// Ensure Store implements the SnapshotStore interface.
var _ repositories.SnapshotStore = (*Store)(nil)

// Write replaces the document for the sync key and hands every subscriber
// its own clone.
func (s *Store) Write(ctx context.Context, syncKey string, snapshot domain.Ledger) error {
	s.mu.Lock()
	s.docs[syncKey] = snapshot.Clone()

	targets := make([]*listener, 0, len(s.listeners[syncKey]))
	for _, l := range s.listeners[syncKey] {
		targets = append(targets, l)
	}
	s.mu.Unlock()

	for _, l := range targets {
		l.push(snapshot.Clone())
	}
	return nil
}

// Subscribe registers a listener for the sync key. The callback fires once
// synchronously with the current document before Subscribe returns; later
// writes are delivered in order on the listener's own goroutine.
func (s *Store) Subscribe(ctx context.Context, syncKey string, onUpdate repositories.SnapshotUpdateFunc) (func(), error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.listeners[syncKey] == nil {
		s.listeners[syncKey] = make(map[int]*listener)
	}
	l := newListener(onUpdate)
	s.listeners[syncKey][id] = l

	doc, exists := s.docs[syncKey]
	var initial *domain.Ledger
	if exists {
		clone := doc.Clone()
		initial = &clone
	}
	s.mu.Unlock()

	onUpdate(initial, exists)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if l, ok := s.listeners[syncKey][id]; ok {
			l.stop()
			delete(s.listeners[syncKey], id)
		}
		if len(s.listeners[syncKey]) == 0 {
			delete(s.listeners, syncKey)
		}
	}, nil
}
