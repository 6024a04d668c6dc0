package service

import (
	"context"
	"math/rand/v2"

	"ewager/events"

	log "github.com/sirupsen/logrus"
)

// mathRandomizer draws from the process-wide math/rand/v2 source, which is safe for concurrent use
type mathRandomizer struct{}

func (mathRandomizer) IntN(n int) int {
	return rand.IntN(n)
}

// NewRandomizer returns the default Randomizer
func NewRandomizer() Randomizer {
	return mathRandomizer{}
}

// reportPersistenceFailure surfaces a failed store write to operators.
// The in-memory mutation has already been applied and is kept.
func reportPersistenceFailure(ctx context.Context, publisher EventPublisher, component, operation string, err error) {
	log.WithFields(log.Fields{
		"component": component,
		"operation": operation,
		"error":     err,
	}).Error("Failed to persist state change")

	if publisher != nil {
		publisher.Emit(ctx, events.PersistenceFailedEvent{
			Component: component,
			Operation: operation,
			Error:     err.Error(),
		})
	}
}

// clampLimit bounds a requested page size to what is available
func clampLimit(limit, available int) int {
	if limit > available {
		return available
	}
	return limit
}
