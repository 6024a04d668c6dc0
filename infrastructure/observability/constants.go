package observability

// Metric name prefixes
const (
	MetricPrefix = "ewager"
)

// Metric names
const (
	// Discord metrics
	MessagesReadTotal = MetricPrefix + ".messages.read_total"

	// Tournament metrics
	TournamentsCreatedTotal      = MetricPrefix + ".tournaments.created_total"
	TournamentTransitionsTotal   = MetricPrefix + ".tournaments.transitions_total"
	TournamentRegistrationsTotal = MetricPrefix + ".tournaments.registrations_total"
	TournamentsOpen              = MetricPrefix + ".tournaments.open"

	// Ledger metrics
	ResultsLoggedTotal = MetricPrefix + ".ledger.results_logged_total"
	TradeMessagesTotal = MetricPrefix + ".ledger.trade_messages_total"

	// Roll metrics
	RollsTotal       = MetricPrefix + ".rolls.total"
	RollStatTotal    = MetricPrefix + ".rolls.stat_total"
	CatalogFailTotal = MetricPrefix + ".catalog.failures_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Persistence metrics
	PersistenceFailuresTotal = MetricPrefix + ".persistence.failures_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelStatus    = "status"
	LabelAction    = "action"
	LabelComponent = "component"
	LabelOperation = "operation"
)

// Message types for Discord
const (
	MessageTypeCommand     = "command"
	MessageTypeInteraction = "interaction"
	MessageTypeMessage     = "message"
	MessageTypeReaction    = "reaction"
)

// Roll kinds
const (
	RollKindNumeric = "numeric"
	RollKindCatalog = "catalog"
)
