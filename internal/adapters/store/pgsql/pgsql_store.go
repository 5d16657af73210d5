// Package pgsql persists ledger snapshots as one JSONB document per sync key
// and propagates cross-instance updates over LISTEN/NOTIFY.
package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/MKH354/hutangku/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// notifyChannel carries the sync key of every written document. Channel names
// cannot be parameterized, so it is baked into the LISTEN statement.
const notifyChannel = "hutangku_ledger_updates"

// Store is a snapshot store backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a snapshot store over the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ensure Store implements the SnapshotStore interface.
var _ repositories.SnapshotStore = (*Store)(nil)

// Write upserts the document and notifies listeners on every instance.
func (s *Store) Write(ctx context.Context, syncKey string, snapshot domain.Ledger) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger for key %s: %w", syncKey, err)
	}

	query := `
		INSERT INTO ledgers (sync_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (sync_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.pool.Exec(ctx, query, syncKey, payload); err != nil {
		return fmt.Errorf("failed to write ledger for key %s: %w", syncKey, err)
	}

	if _, err := s.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, syncKey); err != nil {
		return fmt.Errorf("failed to notify update for key %s: %w", syncKey, err)
	}
	return nil
}

// load fetches the current document for the sync key. A missing row is not an
// error; it reports exists=false.
func (s *Store) load(ctx context.Context, syncKey string) (*domain.Ledger, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT payload FROM ledgers WHERE sync_key = $1`, syncKey).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load ledger for key %s: %w", syncKey, err)
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(payload, &ledger); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal ledger for key %s: %w", syncKey, err)
	}
	return &ledger, true, nil
}

// Subscribe loads the current document, fires the callback once before
// returning, then listens for notifications on a dedicated connection. Each
// matching notification reloads the document and fires the callback again.
func (s *Store) Subscribe(ctx context.Context, syncKey string, onUpdate repositories.SnapshotUpdateFunc) (func(), error) {
	snapshot, exists, err := s.load(ctx, syncKey)
	if err != nil {
		return nil, err
	}
	onUpdate(snapshot, exists)

	listenCtx, cancel := context.WithCancel(context.Background())
	go s.listen(listenCtx, syncKey, onUpdate)

	return cancel, nil
}

func (s *Store) listen(ctx context.Context, syncKey string, onUpdate repositories.SnapshotUpdateFunc) {
	logger := slog.Default().With(slog.String("sync_key", syncKey))

	for {
		if err := s.listenOnce(ctx, syncKey, onUpdate); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("Ledger listener lost connection, reconnecting", slog.String("error", err.Error()))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

// listenOnce holds one dedicated connection in LISTEN mode until the context
// ends or the connection breaks.
func (s *Store) listenOnce(ctx context.Context, syncKey string, onUpdate repositories.SnapshotUpdateFunc) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", notifyChannel, err)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if notification.Payload != syncKey {
			continue
		}

		snapshot, exists, err := s.load(ctx, syncKey)
		if err != nil {
			slog.Default().Warn("Failed to reload ledger after notification",
				slog.String("sync_key", syncKey), slog.String("error", err.Error()))
			continue
		}
		onUpdate(snapshot, exists)
	}
}
