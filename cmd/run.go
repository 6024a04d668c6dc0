package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"ewager/api"
	"ewager/bot"
	"ewager/catalog"
	"ewager/config"
	"ewager/database"
	"ewager/events"
	"ewager/infrastructure"
	"ewager/infrastructure/observability"
	"ewager/repository"
	"ewager/service"
	"ewager/snapshot"
)

const (
	cachePruneInterval = time.Hour
	shutdownTimeout    = 10 * time.Second
)

// ConfigureLogging applies the configured level and formatter to logrus
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// OpenStore builds the persistence backend selected by STORAGE_BACKEND
func OpenStore(ctx context.Context, cfg *config.Config) (service.StateStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		databaseURL := cfg.GetDatabaseURL()
		log.Info("Running database migrations...")
		if err := database.MigrateUp(databaseURL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Database connection established successfully")
		return repository.NewStore(db), nil

	case config.StorageBackendFile:
		log.Infof("Using snapshot file %s", cfg.StateFile)
		return snapshot.NewStore(snapshot.NewFileBlob(cfg.StateFile), snapshot.WithTradeMessageLimit(cfg.SnapshotTradeMessageLimit)), nil

	case config.StorageBackendS3:
		blob, err := snapshot.NewS3Blob(ctx, snapshot.S3Config{
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 snapshot blob: %w", err)
		}
		log.Infof("Using snapshot object s3://%s/%s", cfg.S3Bucket, cfg.S3Key)
		return snapshot.NewStore(blob, snapshot.WithTradeMessageLimit(cfg.SnapshotTradeMessageLimit)), nil
	}
	return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.Info("Starting ewager bot...")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to shut down metrics")
		}
	}()

	// Initialize persistence
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close store")
		}
	}()

	// Initialize event bus
	log.Info("Initializing event bus...")
	eventBus := events.NewBus()
	observability.SubscribeEventMetrics(eventBus, observability.GetMetrics())

	// Forward events to NATS when configured
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient, err = connectNATS(ctx, cfg.NATSServers, eventBus)
		if err != nil {
			return err
		}
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Warn("Failed to close NATS connection")
			}
		}()
	}

	// Initialize catalog client
	pokeAPI := catalog.NewPokeAPIClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	catalogCache := catalog.NewCachedClient(pokeAPI, cfg.CatalogCacheTTL)

	// Initialize services
	log.Info("Initializing services...")
	rng := service.NewRandomizer()
	tournamentService := service.NewTournamentService(store, eventBus, rng, service.TournamentConfig{
		MinSize:         cfg.TournamentMinSize,
		MaxSize:         cfg.TournamentMaxSize,
		MinParticipants: cfg.TournamentMinParticipants,
	})
	ledgerService := service.NewLedgerService(store, eventBus)
	rollService := service.NewRollService(catalogCache, store, eventBus, rng, service.RollConfig{
		CatalogSize:  cfg.CatalogSize,
		FetchTimeout: cfg.CatalogTimeout,
	})

	// Restore state
	restorers := []struct {
		name    string
		restore func(context.Context) error
	}{
		{"tournaments", tournamentService.Restore},
		{"ledger", ledgerService.Restore},
		{"rolls", rollService.Restore},
	}
	for _, r := range restorers {
		if err := r.restore(ctx); err != nil {
			return fmt.Errorf("failed to restore %s: %w", r.name, err)
		}
	}
	log.Info("State restored successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:                       cfg.DiscordToken,
		GuildID:                     cfg.GuildID,
		CommandPrefixes:             cfg.CommandPrefixes,
		CatalogSize:                 cfg.CatalogSize,
		TournamentMinSize:           cfg.TournamentMinSize,
		TournamentMaxSize:           cfg.TournamentMaxSize,
		TournamentDefaultSize:       cfg.TournamentDefaultSize,
		TournamentMinParticipants:   cfg.TournamentMinParticipants,
		TournamentCreateRequiresMod: cfg.TournamentCreateRequiresMod,
		TradeChannelKeywords:        cfg.TradeChannelKeywords,
	}, tournamentService, ledgerService, rollService)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Background jobs
	workers, err := bot.StartWorkers(bot.WorkerConfig{
		GuildID:               cfg.GuildID,
		DailySummaryChannelID: cfg.DailySummaryChannelID,
		DailySummaryHour:      cfg.DailySummaryHour,
		CachePruneInterval:    cachePruneInterval,
	}, discordBot.SummaryPoster(), catalogCache)
	if err != nil {
		discordBot.Close()
		return fmt.Errorf("failed to start workers: %w", err)
	}

	// Read-only HTTP API
	var apiServer *api.Server
	if cfg.DebugAPIAddr != "" {
		apiServer = api.New(tournamentService, ledgerService, rollService)
		go func() {
			if err := apiServer.Start(cfg.DebugAPIAddr); err != nil {
				log.WithError(err).Error("HTTP API stopped")
			}
		}()
	}

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if apiServer != nil {
		errs = append(errs, apiServer.Shutdown(shutdownCtx))
	}
	errs = append(errs, workers.Stop())
	errs = append(errs, discordBot.Close())

	// Let in-flight event handlers finish before the store and NATS close
	eventBus.Wait()

	log.Info("Shutdown complete")
	return errors.Join(errs...)
}

func connectNATS(ctx context.Context, servers string, bus *events.Bus) (*infrastructure.NATSClient, error) {
	log.Infof("Connecting to NATS at %s...", servers)
	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	mapper := infrastructure.NewEventSubjectMapper(observability.MetricPrefix)
	if err := infrastructure.EnsureEventStream(client, mapper); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(client, mapper)
	publisher.OnPublished(func(t events.EventType) {
		observability.GetMetrics().RecordNATSMessagePublished(string(t))
	})
	publisher.Attach(bus)

	log.Infof("Forwarding events to NATS subjects %s", strings.Join(mapper.GetAllSubjects(), ", "))
	return client, nil
}
