package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKH354/hutangku/internal/adapters/store/memory"
	"github.com/MKH354/hutangku/internal/core/domain"
	"github.com/MKH354/hutangku/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_FiresInitialStateBeforeReturning(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	fired := false
	unsub, err := store.Subscribe(ctx, "some-key", func(snapshot *domain.Ledger, exists bool) {
		fired = true
		assert.False(t, exists)
		assert.Nil(t, snapshot)
	})
	require.NoError(t, err)
	defer unsub()

	assert.True(t, fired)
}

func TestWrite_NotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	updates := make(chan domain.Ledger, 2)
	unsub, err := store.Subscribe(ctx, "some-key", func(snapshot *domain.Ledger, exists bool) {
		if exists {
			updates <- *snapshot
		}
	})
	require.NoError(t, err)
	defer unsub()

	ledger := domain.Ledger{Debts: []domain.DebtRecord{{DebtID: "d1", Name: "Budi", Amount: decimal.NewFromInt(100)}}}
	require.NoError(t, store.Write(ctx, "some-key", ledger))

	select {
	case got := <-updates:
		require.Len(t, got.Debts, 1)
		assert.Equal(t, "d1", got.Debts[0].DebtID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestWrite_IsolatesKeysAndClones(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	otherFired := make(chan struct{}, 1)
	unsubOther, err := store.Subscribe(ctx, "other-key", func(snapshot *domain.Ledger, exists bool) {
		if exists {
			otherFired <- struct{}{}
		}
	})
	require.NoError(t, err)
	defer unsubOther()

	ledger := domain.Ledger{Debts: []domain.DebtRecord{{DebtID: "d1", Name: "Budi", Amount: decimal.NewFromInt(100)}}}
	require.NoError(t, store.Write(ctx, "some-key", ledger))

	// Mutating the caller's copy must not leak into the stored document.
	ledger.Debts[0].Name = "Changed"

	var got *domain.Ledger
	unsub, err := store.Subscribe(ctx, "some-key", func(snapshot *domain.Ledger, exists bool) {
		if exists {
			got = snapshot
		}
	})
	require.NoError(t, err)
	defer unsub()

	require.NotNil(t, got)
	assert.Equal(t, "Budi", got.Debts[0].Name)

	select {
	case <-otherFired:
		t.Fatal("subscriber of another key was notified")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWrite_DeliveriesNeverRegress(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var mu sync.Mutex
	var seen []int
	unsub, err := store.Subscribe(ctx, "some-key", func(snapshot *domain.Ledger, exists bool) {
		if !exists {
			return
		}
		mu.Lock()
		seen = append(seen, len(snapshot.Debts))
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsub()

	const writes = 50
	ledger := domain.Ledger{}
	for i := 0; i < writes; i++ {
		ledger.PrependDebt(domain.DebtRecord{DebtID: fmt.Sprintf("d%d", i), Name: "Budi", Amount: decimal.NewFromInt(100)})
		require.NoError(t, store.Write(ctx, "some-key", ledger))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == writes
	}, time.Second, 5*time.Millisecond, "final write never delivered")

	// A subscriber must never see an older document after a newer one.
	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1], "delivery regressed at index %d: %v", i, seen)
	}
}

func TestSessionKeepsEveryMutationUnderNotificationLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	manager := services.NewSessionManager(store)

	const mutations = 200
	for i := 0; i < mutations; i++ {
		id := fmt.Sprintf("d%d", i)
		_, err := manager.Update(ctx, "some-key", func(l *domain.Ledger) error {
			l.PrependDebt(domain.DebtRecord{DebtID: id, Name: "Budi", Amount: decimal.NewFromInt(100)})
			return nil
		})
		require.NoError(t, err)
	}

	// Let the write notifications drain; an out-of-order echo of an earlier
	// write must not roll the session snapshot back.
	time.Sleep(100 * time.Millisecond)

	err := manager.View(ctx, "some-key", func(l *domain.Ledger) error {
		assert.Len(t, l.Debts, mutations)
		return nil
	})
	require.NoError(t, err)
}

func TestUnsubscribe_StopsNotifications(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	notified := make(chan struct{}, 1)
	unsub, err := store.Subscribe(ctx, "some-key", func(snapshot *domain.Ledger, exists bool) {
		if exists {
			notified <- struct{}{}
		}
	})
	require.NoError(t, err)
	unsub()

	require.NoError(t, store.Write(ctx, "some-key", domain.Ledger{}))

	select {
	case <-notified:
		t.Fatal("unsubscribed listener was notified")
	case <-time.After(50 * time.Millisecond):
	}
}
