package observability

import (
	"context"

	"ewager/events"
	"ewager/models"
)

// SubscribeEventMetrics records bus events as metrics
func SubscribeEventMetrics(bus *events.Bus, mp *MetricsProvider) {
	bus.Subscribe(events.EventTypeTournamentCreated, func(ctx context.Context, e events.Event) {
		mp.RecordTournamentCreated()
	})

	bus.Subscribe(events.EventTypeTournamentStateChange, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.TournamentStateChangeEvent); ok {
			mp.RecordTournamentTransition(string(ev.NewStatus), ev.NewStatus == models.TournamentStatusCompleted)
		}
	})

	bus.Subscribe(events.EventTypeTournamentParticipantsChanged, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.TournamentParticipantsChangedEvent); ok {
			mp.RecordRegistration(ev.Joined)
		}
	})

	bus.Subscribe(events.EventTypeWagerResultLogged, func(ctx context.Context, e events.Event) {
		mp.RecordResultLogged()
	})

	bus.Subscribe(events.EventTypeTradeMessageLogged, func(ctx context.Context, e events.Event) {
		mp.RecordTradeMessage()
	})

	bus.Subscribe(events.EventTypeCatalogRolled, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.CatalogRolledEvent); ok {
			mp.RecordRoll(RollKindCatalog, ev.StatTotal)
		}
	})

	bus.Subscribe(events.EventTypeNumericRolled, func(ctx context.Context, e events.Event) {
		mp.RecordRoll(RollKindNumeric, 0)
	})

	bus.Subscribe(events.EventTypePersistenceFailed, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.PersistenceFailedEvent); ok {
			mp.RecordPersistenceFailure(ev.Component, ev.Operation)
		}
	})
}
