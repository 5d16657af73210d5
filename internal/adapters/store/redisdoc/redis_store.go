// Package redisdoc persists ledger snapshots as one JSON value per sync key
// in Redis and propagates cross-instance updates over pub/sub.
package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/MKH354/hutangku/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hutangku:ledger:"
const channelPrefix = "hutangku:updates:"

// Store is a snapshot store backed by Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a snapshot store over the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ensure Store implements the SnapshotStore interface.
var _ repositories.SnapshotStore = (*Store)(nil)

// Write sets the document and publishes the sync key on its update channel.
func (s *Store) Write(ctx context.Context, syncKey string, snapshot domain.Ledger) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger for key %s: %w", syncKey, err)
	}

	if err := s.client.Set(ctx, keyPrefix+syncKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write ledger for key %s: %w", syncKey, err)
	}
	if err := s.client.Publish(ctx, channelPrefix+syncKey, syncKey).Err(); err != nil {
		return fmt.Errorf("failed to publish update for key %s: %w", syncKey, err)
	}
	return nil
}

// load fetches the current document. A missing key reports exists=false.
func (s *Store) load(ctx context.Context, syncKey string) (*domain.Ledger, bool, error) {
	payload, err := s.client.Get(ctx, keyPrefix+syncKey).Bytes()
	if errors.Is(err, redis.Nil) {
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
// returning, then reloads and fires again on every published update.
func (s *Store) Subscribe(ctx context.Context, syncKey string, onUpdate repositories.SnapshotUpdateFunc) (func(), error) {
	snapshot, exists, err := s.load(ctx, syncKey)
	if err != nil {
		return nil, err
	}
	onUpdate(snapshot, exists)

	listenCtx, cancel := context.WithCancel(context.Background())
	pubsub := s.client.Subscribe(listenCtx, channelPrefix+syncKey)

	go func() {
		for range pubsub.Channel() {
			snapshot, exists, err := s.load(listenCtx, syncKey)
			if err != nil {
				if listenCtx.Err() != nil {
					return
				}
				slog.Default().Warn("Failed to reload ledger after publish",
					slog.String("sync_key", syncKey), slog.String("error", err.Error()))
				continue
			}
			onUpdate(snapshot, exists)
		}
	}()

	return func() {
		cancel()
		if err := pubsub.Close(); err != nil {
			slog.Default().Warn("Failed to close ledger subscription",
				slog.String("sync_key", syncKey), slog.String("error", err.Error()))
		}
	}, nil
}
