package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/MKH354/hutangku/internal/apperrors"
	"github.com/MKH354/hutangku/internal/core/domain"
	portsrepo "github.com/MKH354/hutangku/internal/core/ports/repositories"
	"github.com/MKH354/hutangku/internal/middleware"
)

// minSyncKeyLength is the minimum length of a normalized sync key.
const minSyncKeyLength = 4

// session is the live state for one sync key: the cached ledger snapshot and
// the single push subscription feeding it. A remote push replaces the whole
// snapshot (last writer wins).
type session struct {
	mu          sync.Mutex
	key         string
	ledger      domain.Ledger
	unsubscribe func()
}

// SessionManager owns all live sync sessions. Each sync key has at most one
// active subscription; releasing or re-opening a session cancels the previous
// subscription before establishing a new one.
type SessionManager struct {
	mu       sync.Mutex
	store    portsrepo.SnapshotStore
	sessions map[string]*session
}

// NewSessionManager creates a session manager over the given snapshot store.
func NewSessionManager(store portsrepo.SnapshotStore) *SessionManager {
	return &SessionManager{
		store:    store,
		sessions: make(map[string]*session),
	}
}

// NormalizeSyncKey trims, lowercases and dash-joins the raw sync code, then
// enforces the minimum length.
func NormalizeSyncKey(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Join(strings.Fields(key), "-")
	if len(key) < minSyncKeyLength {
		return "", fmt.Errorf("%w: sync key must be at least %d characters", apperrors.ErrValidation, minSyncKeyLength)
	}
	return key, nil
}

// acquire returns the live session for the sync key, subscribing to the
// remote document on first use. The initial subscription callback fires
// before Subscribe returns, so the returned session is already loaded.
func (m *SessionManager) acquire(ctx context.Context, rawKey string) (*session, error) {
	key, err := NormalizeSyncKey(rawKey)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[key]; ok {
		return sess, nil
	}

	sess := &session{key: key}
	unsub, err := m.store.Subscribe(ctx, key, func(snapshot *domain.Ledger, exists bool) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if !exists || snapshot == nil {
			// Brand-new sync key: an empty ledger, not an error.
			sess.ledger = domain.Ledger{}
			return
		}
		sess.ledger = snapshot.Clone()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe for key %s: %v", apperrors.ErrPersistence, key, err)
	}
	sess.unsubscribe = unsub
	m.sessions[key] = sess
	return sess, nil
}

// Update runs fn against the session's ledger under its lock, then attempts
// the durable write. The write is optimistic: a failure is logged and
// reported through syncWarn but never rolls the mutation back, and is never
// retried automatically.
func (m *SessionManager) Update(ctx context.Context, rawKey string, fn func(l *domain.Ledger) error) (syncWarn bool, err error) {
	sess, err := m.acquire(ctx, rawKey)
	if err != nil {
		return false, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(&sess.ledger); err != nil {
		return false, err
	}

	if werr := m.store.Write(ctx, sess.key, sess.ledger.Clone()); werr != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Snapshot write failed, in-memory state kept",
			slog.String("sync_key", sess.key),
			slog.String("error", fmt.Errorf("%w: %v", apperrors.ErrPersistence, werr).Error()))
		return true, nil
	}
	return false, nil
}

// View runs fn against the session's ledger under its lock, without writing.
func (m *SessionManager) View(ctx context.Context, rawKey string, fn func(l *domain.Ledger) error) error {
	sess, err := m.acquire(ctx, rawKey)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(&sess.ledger)
}

// Release cancels the session's subscription and drops its cached snapshot.
func (m *SessionManager) Release(rawKey string) {
	key, err := NormalizeSyncKey(rawKey)
	if err != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[key]; ok {
		if sess.unsubscribe != nil {
			sess.unsubscribe()
		}
		delete(m.sessions, key)
	}
}

// CloseAll cancels every live subscription. Called on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, sess := range m.sessions {
		if sess.unsubscribe != nil {
			sess.unsubscribe()
		}
		delete(m.sessions, key)
	}
}
