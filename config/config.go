package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"ewager/database"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendFile     = "file"
	StorageBackendS3       = "s3"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken    string   `env:"DISCORD_TOKEN"`
	GuildID         string   `env:"GUILD_ID"`
	CommandPrefixes []string `env:"COMMAND_PREFIXES" envDefault:"e!,!" envSeparator:","`

	// Storage configuration
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DatabaseName   string `env:"DATABASE_NAME"`
	StateFile      string `env:"STATE_FILE" envDefault:"ewager_data.json"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Key          string `env:"S3_KEY" envDefault:"ewager_data.json"`
	S3Region       string `env:"S3_REGION" envDefault:"auto"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"S3_SECRET_ACCESS_KEY"`

	// Trade messages kept in the file/s3 snapshot, 0 keeps all
	SnapshotTradeMessageLimit int `env:"SNAPSHOT_TRADE_MESSAGE_LIMIT" envDefault:"1000"`

	// Catalog (PokeAPI) configuration
	CatalogBaseURL  string        `env:"CATALOG_BASE_URL" envDefault:"https://pokeapi.co/api/v2"`
	CatalogSize     int           `env:"CATALOG_SIZE" envDefault:"1025"`
	CatalogTimeout  time.Duration `env:"CATALOG_TIMEOUT" envDefault:"5s"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"24h"`

	// Tournament configuration
	TournamentMinSize           int  `env:"TOURNAMENT_MIN_SIZE" envDefault:"4"`
	TournamentMaxSize           int  `env:"TOURNAMENT_MAX_SIZE" envDefault:"50"`
	TournamentDefaultSize       int  `env:"TOURNAMENT_DEFAULT_SIZE" envDefault:"8"`
	TournamentMinParticipants   int  `env:"TOURNAMENT_MIN_PARTICIPANTS" envDefault:"2"`
	TournamentCreateRequiresMod bool `env:"TOURNAMENT_CREATE_REQUIRES_MOD" envDefault:"true"`

	// Channels whose slugified name contains one of these keywords get trade logging
	TradeChannelKeywords []string `env:"TRADE_CHANNEL_KEYWORDS" envDefault:"trade,gamble" envSeparator:","`

	// NATS configuration, empty disables event forwarding
	NATSServers string `env:"NATS_SERVERS"`

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"ewager"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"` // "console", "otlp" or "none"
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MS" envDefault:"60000"`

	// Debug API, empty disables it
	DebugAPIAddr string `env:"DEBUG_API_ADDR"`

	// Daily ledger summary
	DailySummaryChannelID string `env:"DAILY_SUMMARY_CHANNEL_ID"`
	DailySummaryHour      int    `env:"DAILY_SUMMARY_HOUR" envDefault:"14"` // Hour in UTC (0-23)

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from an optional .env file and the environment
func load() (*Config, error) {
	// Missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadUnvalidated parses .env and the environment without Validate.
// Tools like the migrate command need DATABASE_URL but not DISCORD_TOKEN.
func LoadUnvalidated() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

// Validate checks required settings and value ranges
func (c *Config) Validate() error {
	if c.TournamentMinSize < 1 || c.TournamentMaxSize < c.TournamentMinSize {
		return fmt.Errorf("invalid tournament size bounds %d..%d", c.TournamentMinSize, c.TournamentMaxSize)
	}
	if c.TournamentDefaultSize < c.TournamentMinSize || c.TournamentDefaultSize > c.TournamentMaxSize {
		return fmt.Errorf("TOURNAMENT_DEFAULT_SIZE %d is outside %d..%d", c.TournamentDefaultSize, c.TournamentMinSize, c.TournamentMaxSize)
	}
	if c.TournamentMinParticipants < 1 {
		return fmt.Errorf("TOURNAMENT_MIN_PARTICIPANTS must be at least 1")
	}
	if c.CatalogSize < 1 {
		return fmt.Errorf("CATALOG_SIZE must be positive")
	}
	if c.DailySummaryHour < 0 || c.DailySummaryHour > 23 {
		return fmt.Errorf("DAILY_SUMMARY_HOUR must be between 0 and 23")
	}

	if c.Environment == "test" {
		return nil
	}

	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	switch c.StorageBackend {
	case StorageBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	case StorageBackendFile:
		if c.StateFile == "" {
			return fmt.Errorf("STATE_FILE is required")
		}
	case StorageBackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:                 "test",
		CommandPrefixes:             []string{"e!", "!"},
		StorageBackend:              StorageBackendFile,
		StateFile:                   "ewager_test.json",
		SnapshotTradeMessageLimit:   1000,
		CatalogBaseURL:              "https://pokeapi.co/api/v2",
		CatalogSize:                 1025,
		CatalogTimeout:              5 * time.Second,
		CatalogCacheTTL:             time.Hour,
		TournamentMinSize:           4,
		TournamentMaxSize:           50,
		TournamentDefaultSize:       8,
		TournamentMinParticipants:   2,
		TournamentCreateRequiresMod: true,
		TradeChannelKeywords:        []string{"trade", "gamble"},
		OTelExporterType:            "none",
		DailySummaryHour:            14,
		LogLevel:                    "info",
	}
}
