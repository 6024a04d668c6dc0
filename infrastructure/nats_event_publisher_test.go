package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"ewager/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

type fakeMessagePublisher struct {
	mu       sync.Mutex
	err      error
	messages []publishedMessage
}

func (f *fakeMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, publishedMessage{subject: subject, data: data})
	return nil
}

func (f *fakeMessagePublisher) published() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMessage(nil), f.messages...)
}

func TestNATSEventPublisher_Envelope(t *testing.T) {
	client := &fakeMessagePublisher{}
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper("ewager"))

	var published []events.EventType
	publisher.OnPublished(func(t events.EventType) { published = append(published, t) })

	err := publisher.Publish(context.Background(), events.WagerResultLoggedEvent{
		Sequence: 4,
		WinnerID: 1,
		LoserID:  2,
		LoggedBy: 3,
	})
	require.NoError(t, err)

	msgs := client.published()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ewager.ledger.result_logged", msgs[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msgs[0].data, &envelope))
	assert.Equal(t, "wager_result_logged", envelope.EventType)
	assert.Equal(t, "ewager", envelope.SourceService)
	_, err = uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.WagerResultLoggedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, int64(4), payload.Sequence)

	assert.Equal(t, []events.EventType{events.EventTypeWagerResultLogged}, published)
}

func TestNATSEventPublisher_PublishError(t *testing.T) {
	client := &fakeMessagePublisher{err: errors.New("no responders")}
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(""))

	called := false
	publisher.OnPublished(func(events.EventType) { called = true })

	err := publisher.Publish(context.Background(), events.NumericRolledEvent{UserID: 1, Value: 50})
	assert.Error(t, err)
	assert.False(t, called)

	// Handle swallows the error
	publisher.Handle(context.Background(), events.NumericRolledEvent{UserID: 1, Value: 50})
}

func TestNATSEventPublisher_AttachForwardsBusEvents(t *testing.T) {
	client := &fakeMessagePublisher{}
	publisher := NewNATSEventPublisher(client, NewEventSubjectMapper(""))

	bus := events.NewBus()
	publisher.Attach(bus)

	bus.Emit(context.Background(), events.TournamentCreatedEvent{TournamentID: 1, HostID: 2, Size: 8})
	bus.Emit(context.Background(), events.CatalogRolledEvent{UserID: 2, CatalogID: 25})
	bus.Wait()

	subjects := make([]string, 0, 2)
	for _, m := range client.published() {
		subjects = append(subjects, m.subject)
	}
	assert.ElementsMatch(t, []string{"tournaments.created", "rolls.catalog"}, subjects)
}
