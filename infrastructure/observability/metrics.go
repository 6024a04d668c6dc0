package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ewager/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	messagesReadCounter          metric.Int64Counter
	tournamentsCreatedCounter    metric.Int64Counter
	tournamentTransitionsCounter metric.Int64Counter
	registrationsCounter         metric.Int64Counter
	tournamentsOpenGauge         metric.Int64UpDownCounter
	resultsLoggedCounter         metric.Int64Counter
	tradeMessagesCounter         metric.Int64Counter
	rollsCounter                 metric.Int64Counter
	rollStatTotalHist            metric.Float64Histogram
	catalogFailuresCounter       metric.Int64Counter
	natsPublishedCounter         metric.Int64Counter
	persistenceFailuresCounter   metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Info("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.Infof("Using OTLP metric exporter: %s", mp.config.OTelOTLPEndpoint)

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.setup(reader); err != nil {
		return err
	}

	otel.SetMeterProvider(mp.meterProvider)
	log.Info("Metrics provider initialized successfully")
	return nil
}

// InitializeWithReader wires the provider to an explicit reader. Tests pass a ManualReader.
func (mp *MetricsProvider) InitializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.setup(reader)
}

// setup builds the meter provider and instruments. Caller holds mu.
func (mp *MetricsProvider) setup(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		// Schemaless so the merge never conflicts with the SDK default schema URL
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("ewager")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.messagesReadCounter, MessagesReadTotal, "Total number of Discord messages and interactions read"},
		{&mp.tournamentsCreatedCounter, TournamentsCreatedTotal, "Total number of tournaments created"},
		{&mp.tournamentTransitionsCounter, TournamentTransitionsTotal, "Total number of tournament status transitions"},
		{&mp.registrationsCounter, TournamentRegistrationsTotal, "Total number of tournament joins and leaves"},
		{&mp.resultsLoggedCounter, ResultsLoggedTotal, "Total number of manual results logged"},
		{&mp.tradeMessagesCounter, TradeMessagesTotal, "Total number of trade channel messages captured"},
		{&mp.rollsCounter, RollsTotal, "Total number of rolls"},
		{&mp.catalogFailuresCounter, CatalogFailTotal, "Total number of failed catalog lookups"},
		{&mp.natsPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
		{&mp.persistenceFailuresCounter, PersistenceFailuresTotal, "Total number of failed store writes"},
	}

	var err error
	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	mp.tournamentsOpenGauge, err = mp.meter.Int64UpDownCounter(
		TournamentsOpen,
		metric.WithDescription("Current number of tournaments not yet completed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create open tournaments gauge: %w", err)
	}

	mp.rollStatTotalHist, err = mp.meter.Float64Histogram(
		RollStatTotal,
		metric.WithDescription("Base stat total of rolled catalog entries"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(200, 300, 400, 500, 600, 700),
	)
	if err != nil {
		return fmt.Errorf("failed to create stat total histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordMessageRead records a Discord message being read
func (mp *MetricsProvider) RecordMessageRead(messageType string) {
	if !mp.isEnabled() {
		return
	}
	mp.messagesReadCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, messageType)),
	)
}

// RecordTournamentCreated records a new tournament
func (mp *MetricsProvider) RecordTournamentCreated() {
	if !mp.isEnabled() {
		return
	}
	ctx := context.Background()
	mp.tournamentsCreatedCounter.Add(ctx, 1)
	mp.tournamentsOpenGauge.Add(ctx, 1)
}

// RecordTournamentTransition records a status change
func (mp *MetricsProvider) RecordTournamentTransition(newStatus string, completed bool) {
	if !mp.isEnabled() {
		return
	}
	ctx := context.Background()
	mp.tournamentTransitionsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(LabelStatus, newStatus)),
	)
	if completed {
		mp.tournamentsOpenGauge.Add(ctx, -1)
	}
}

// RecordRegistration records a join or leave
func (mp *MetricsProvider) RecordRegistration(joined bool) {
	if !mp.isEnabled() {
		return
	}
	action := "leave"
	if joined {
		action = "join"
	}
	mp.registrationsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelAction, action)),
	)
}

// RecordResultLogged records a manual ledger entry
func (mp *MetricsProvider) RecordResultLogged() {
	if !mp.isEnabled() {
		return
	}
	mp.resultsLoggedCounter.Add(context.Background(), 1)
}

// RecordTradeMessage records a captured trade message
func (mp *MetricsProvider) RecordTradeMessage() {
	if !mp.isEnabled() {
		return
	}
	mp.tradeMessagesCounter.Add(context.Background(), 1)
}

// RecordRoll records a roll; statTotal is ignored for numeric rolls
func (mp *MetricsProvider) RecordRoll(kind string, statTotal int) {
	if !mp.isEnabled() {
		return
	}
	ctx := context.Background()
	mp.rollsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(LabelType, kind)),
	)
	if kind == RollKindCatalog {
		mp.rollStatTotalHist.Record(ctx, float64(statTotal))
	}
}

// RecordCatalogFailure records a failed catalog lookup
func (mp *MetricsProvider) RecordCatalogFailure() {
	if !mp.isEnabled() {
		return
	}
	mp.catalogFailuresCounter.Add(context.Background(), 1)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordPersistenceFailure records a failed store write
func (mp *MetricsProvider) RecordPersistenceFailure(component, operation string) {
	if !mp.isEnabled() {
		return
	}
	mp.persistenceFailuresCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelComponent, component),
			attribute.String(LabelOperation, operation),
		),
	)
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider. Nil until initialized; every Record method tolerates nil.
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
