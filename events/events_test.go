package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToTypedSubscribers(t *testing.T) {
	bus := NewBus()

	received := make(chan TournamentCreatedEvent, 1)
	bus.Subscribe(EventTypeTournamentCreated, func(ctx context.Context, event Event) {
		if e, ok := event.(TournamentCreatedEvent); ok {
			received <- e
		} else {
			t.Errorf("Expected TournamentCreatedEvent, got %T", event)
		}
	})

	// Handlers for other types must not fire
	bus.Subscribe(EventTypeCatalogRolled, func(ctx context.Context, event Event) {
		t.Errorf("unexpected delivery of %s", event.Type())
	})

	sent := TournamentCreatedEvent{TournamentID: 7, HostID: 1, Size: 8, ChannelID: 3}
	bus.Emit(context.Background(), sent)
	bus.Wait()

	select {
	case got := <-received:
		assert.Equal(t, sent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

func TestBus_SubscribeAllReceivesEveryType(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var seen []EventType
	bus.SubscribeAll(func(ctx context.Context, event Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, event.Type())
	})

	bus.Emit(context.Background(), NumericRolledEvent{UserID: 1, Value: 50})
	bus.Emit(context.Background(), WagerResultLoggedEvent{Sequence: 1, WinnerID: 1, LoserID: 2})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []EventType{EventTypeNumericRolled, EventTypeWagerResultLogged}, seen)
}

func TestBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypePersistenceFailed, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypePersistenceFailed, func(ctx context.Context, event Event) {
		close(done)
	})

	require.NotPanics(t, func() {
		bus.Emit(context.Background(), PersistenceFailedEvent{Component: "tournaments", Operation: "save"})
		bus.Wait()
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler did not run")
	}
}

func TestBus_HandlerContextOutlivesCaller(t *testing.T) {
	bus := NewBus()

	errs := make(chan error, 1)
	bus.Subscribe(EventTypeNumericRolled, func(ctx context.Context, event Event) {
		errs <- ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Emit(ctx, NumericRolledEvent{UserID: 1, Value: 1})
	cancel()
	bus.Wait()

	assert.NoError(t, <-errs)
}
