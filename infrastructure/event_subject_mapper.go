package infrastructure

import (
	"fmt"

	"ewager/events"
)

var subjectsByType = map[events.EventType]string{
	events.EventTypeTournamentCreated:             "tournaments.created",
	events.EventTypeTournamentParticipantsChanged: "tournaments.participants_changed",
	events.EventTypeTournamentStateChange:         "tournaments.state_changed",
	events.EventTypeWagerResultLogged:             "ledger.result_logged",
	events.EventTypeTradeMessageLogged:            "ledger.trade_message_logged",
	events.EventTypeCatalogRolled:                 "rolls.catalog",
	events.EventTypeNumericRolled:                 "rolls.numeric",
	events.EventTypePersistenceFailed:             "system.persistence_failed",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct {
	prefix string
}

// NewEventSubjectMapper creates a mapper. Subjects are namespaced under prefix, e.g. "ewager".
func NewEventSubjectMapper(prefix string) *EventSubjectMapper {
	return &EventSubjectMapper{prefix: prefix}
}

func (m *EventSubjectMapper) qualify(subject string) string {
	if m.prefix == "" {
		return subject
	}
	return m.prefix + "." + subject
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return m.qualify(subject)
	}
	return m.qualify(fmt.Sprintf("unknown.%s", event.Type()))
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if m.qualify(s) == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects this service publishes to, in event type order
func (m *EventSubjectMapper) GetAllSubjects() []string {
	types := events.AllEventTypes()
	subjects := make([]string, 0, len(types))
	for _, t := range types {
		subjects = append(subjects, m.qualify(subjectsByType[t]))
	}
	return subjects
}
