package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// SummaryPoster posts the daily ledger summary
type SummaryPoster interface {
	PostDailySummary(ctx context.Context, guildID, channelID string) error
}

// CachePruner drops expired catalog cache entries
type CachePruner interface {
	Prune() int
}

// WorkerConfig selects which background jobs run
type WorkerConfig struct {
	GuildID               string
	DailySummaryChannelID string
	DailySummaryHour      int // UTC
	CachePruneInterval    time.Duration
}

// Workers owns the background job scheduler
type Workers struct {
	scheduler gocron.Scheduler
}

// StartWorkers schedules the daily summary and cache pruning and starts the scheduler
func StartWorkers(cfg WorkerConfig, summary SummaryPoster, pruner CachePruner) (*Workers, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	if summary != nil && cfg.DailySummaryChannelID != "" {
		hour := cfg.DailySummaryHour
		if hour < 0 || hour > 23 {
			return nil, fmt.Errorf("daily summary hour must be 0-23, got %d", hour)
		}
		_, err := scheduler.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), 0, 0))),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				if err := summary.PostDailySummary(ctx, cfg.GuildID, cfg.DailySummaryChannelID); err != nil {
					log.WithError(err).Error("Daily summary job failed")
				}
			}),
			gocron.WithName("daily-summary"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule daily summary: %w", err)
		}
		log.Infof("Daily summary scheduled at %02d:00 UTC", hour)
	}

	if pruner != nil && cfg.CachePruneInterval > 0 {
		_, err := scheduler.NewJob(
			gocron.DurationJob(cfg.CachePruneInterval),
			gocron.NewTask(func() {
				if n := pruner.Prune(); n > 0 {
					log.WithField("entries", n).Debug("Pruned catalog cache")
				}
			}),
			gocron.WithName("catalog-cache-prune"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule cache prune: %w", err)
		}
	}

	scheduler.Start()
	return &Workers{scheduler: scheduler}, nil
}

// JobNames lists the scheduled jobs
func (w *Workers) JobNames() []string {
	jobs := w.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

// Stop shuts the scheduler down, waiting for running jobs
func (w *Workers) Stop() error {
	return w.scheduler.Shutdown()
}
