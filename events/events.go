package events

import (
	"context"
	"sync"

	"ewager/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTournamentCreated             EventType = "tournament_created"
	EventTypeTournamentParticipantsChanged EventType = "tournament_participants_changed"
	EventTypeTournamentStateChange         EventType = "tournament_state_change"
	EventTypeWagerResultLogged             EventType = "wager_result_logged"
	EventTypeTradeMessageLogged            EventType = "trade_message_logged"
	EventTypeCatalogRolled                 EventType = "catalog_rolled"
	EventTypeNumericRolled                 EventType = "numeric_rolled"
	EventTypePersistenceFailed             EventType = "persistence_failed"
)

// AllEventTypes lists every event type the bot emits
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeTournamentCreated,
		EventTypeTournamentParticipantsChanged,
		EventTypeTournamentStateChange,
		EventTypeWagerResultLogged,
		EventTypeTradeMessageLogged,
		EventTypeCatalogRolled,
		EventTypeNumericRolled,
		EventTypePersistenceFailed,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TournamentCreatedEvent is emitted when a tournament opens registration
type TournamentCreatedEvent struct {
	TournamentID int64 `json:"tournament_id"`
	HostID       int64 `json:"host_id"`
	Size         int   `json:"size"`
	ChannelID    int64 `json:"channel_id"`
}

func (e TournamentCreatedEvent) Type() EventType {
	return EventTypeTournamentCreated
}

// TournamentParticipantsChangedEvent is emitted after a join or leave
type TournamentParticipantsChangedEvent struct {
	TournamentID int64 `json:"tournament_id"`
	UserID       int64 `json:"user_id"`
	Joined       bool  `json:"joined"`
	Count        int   `json:"count"`
	Size         int   `json:"size"`
}

func (e TournamentParticipantsChangedEvent) Type() EventType {
	return EventTypeTournamentParticipantsChanged
}

// TournamentStateChangeEvent is emitted on every status transition
type TournamentStateChangeEvent struct {
	TournamentID    int64                   `json:"tournament_id"`
	OldStatus       models.TournamentStatus `json:"old_status"`
	NewStatus       models.TournamentStatus `json:"new_status"`
	ActorID         int64                   `json:"actor_id"`
	WinnerID        *int64                  `json:"winner_id,omitempty"`
	ChannelID       int64                   `json:"channel_id"`
	StatusMessageID *int64                  `json:"status_message_id,omitempty"`
}

func (e TournamentStateChangeEvent) Type() EventType {
	return EventTypeTournamentStateChange
}

// WagerResultLoggedEvent is emitted when a manual result is appended to the ledger
type WagerResultLoggedEvent struct {
	Sequence int64 `json:"sequence"`
	WinnerID int64 `json:"winner_id"`
	LoserID  int64 `json:"loser_id"`
	LoggedBy int64 `json:"logged_by"`
}

func (e WagerResultLoggedEvent) Type() EventType {
	return EventTypeWagerResultLogged
}

// TradeMessageLoggedEvent is emitted when a trade channel message is captured
type TradeMessageLoggedEvent struct {
	UserID    int64 `json:"user_id"`
	ChannelID int64 `json:"channel_id"`
}

func (e TradeMessageLoggedEvent) Type() EventType {
	return EventTypeTradeMessageLogged
}

// CatalogRolledEvent is emitted after a successful catalog roll
type CatalogRolledEvent struct {
	UserID    int64  `json:"user_id"`
	CatalogID int    `json:"catalog_id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	StatTotal int    `json:"stat_total"`
}

func (e CatalogRolledEvent) Type() EventType {
	return EventTypeCatalogRolled
}

// NumericRolledEvent is emitted after a 1-100 roll
type NumericRolledEvent struct {
	UserID int64 `json:"user_id"`
	Value  int   `json:"value"`
}

func (e NumericRolledEvent) Type() EventType {
	return EventTypeNumericRolled
}

// PersistenceFailedEvent is emitted when a store write fails after an in-memory mutation
type PersistenceFailedEvent struct {
	Component string `json:"component"`
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

func (e PersistenceFailedEvent) Type() EventType {
	return EventTypePersistenceFailed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wildcard []Handler
	inflight sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler that receives every event
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = append(b.wildcard, handler)
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines; a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.wildcard))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers must not inherit a request context that is about to be cancelled
	handlerCtx := context.WithoutCancel(ctx)

	for i, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(handlerCtx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.inflight.Wait()
}
