package observability

import (
	"context"
	"testing"

	"ewager/config"
	"ewager/events"
	"ewager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.OTelServiceName = "ewager-test"

	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.InitializeWithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

// sumOf adds every data point of the named Int64 sum
func sumOf(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	// None of these may panic without instruments
	mp.RecordMessageRead(MessageTypeCommand)
	mp.RecordRoll(RollKindCatalog, 300)
	mp.RecordPersistenceFailure("ledger", "append")

	var nilProvider *MetricsProvider
	nilProvider.RecordTournamentCreated()
}

func TestMetricsProvider_Counters(t *testing.T) {
	mp, reader := newTestProvider(t)

	mp.RecordMessageRead(MessageTypeMessage)
	mp.RecordMessageRead(MessageTypeInteraction)
	mp.RecordRoll(RollKindNumeric, 0)
	mp.RecordRoll(RollKindCatalog, 320)

	assert.Equal(t, int64(2), sumOf(t, reader, MessagesReadTotal))
	assert.Equal(t, int64(2), sumOf(t, reader, RollsTotal))
}

func TestSubscribeEventMetrics(t *testing.T) {
	mp, reader := newTestProvider(t)
	bus := events.NewBus()
	SubscribeEventMetrics(bus, mp)

	ctx := context.Background()
	bus.Emit(ctx, events.TournamentCreatedEvent{TournamentID: 1})
	bus.Emit(ctx, events.TournamentCreatedEvent{TournamentID: 2})
	bus.Emit(ctx, events.TournamentParticipantsChangedEvent{TournamentID: 1, Joined: true})
	bus.Emit(ctx, events.TournamentStateChangeEvent{
		TournamentID: 1,
		OldStatus:    models.TournamentStatusRegistration,
		NewStatus:    models.TournamentStatusCompleted,
	})
	bus.Emit(ctx, events.WagerResultLoggedEvent{Sequence: 1})
	bus.Emit(ctx, events.PersistenceFailedEvent{Component: "ledger", Operation: "append_wager_log"})
	bus.Wait()

	assert.Equal(t, int64(2), sumOf(t, reader, TournamentsCreatedTotal))
	assert.Equal(t, int64(1), sumOf(t, reader, TournamentsOpen))
	assert.Equal(t, int64(1), sumOf(t, reader, TournamentRegistrationsTotal))
	assert.Equal(t, int64(1), sumOf(t, reader, TournamentTransitionsTotal))
	assert.Equal(t, int64(1), sumOf(t, reader, ResultsLoggedTotal))
	assert.Equal(t, int64(1), sumOf(t, reader, PersistenceFailuresTotal))
}
