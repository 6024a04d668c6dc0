package ledger

import (
	"context"

	"ewager/bot/common"

	log "github.com/sirupsen/logrus"
)

// LogResult records a self-reported win for winnerID over loserID
func (f *Feature) LogResult(ctx context.Context, r common.Responder, inv common.Invocation, winnerID, loserID int64) {
	entry, err := f.ledger.LogManualResult(ctx, winnerID, loserID, inv.UserID, inv.GuildID, inv.ChannelID)
	if err != nil {
		common.HandleError(r, err, "gamble log")
		return
	}

	if _, err := r.Embed(BuildLoggedEmbed(entry, f.names(inv))); err != nil {
		log.WithError(err).WithField("entry", entry.DisplayID()).Error("Failed to confirm logged result")
	}
}

// Recent shows the latest ledger entries
func (f *Feature) Recent(ctx context.Context, r common.Responder, inv common.Invocation, limit int) {
	if limit > common.MaxListLimit {
		limit = common.MaxListLimit
	}
	entries, err := f.ledger.RecentResults(ctx, limit)
	if err != nil {
		common.HandleError(r, err, "logs recent")
		return
	}
	if _, err := r.Embed(BuildRecentEmbed(entries, f.names(inv))); err != nil {
		log.WithError(err).Error("Failed to send recent logs")
	}
}

// Leaderboard shows users ranked by logged wins
func (f *Feature) Leaderboard(ctx context.Context, r common.Responder, inv common.Invocation, limit int) {
	if limit > common.MaxListLimit {
		limit = common.MaxListLimit
	}
	rows, err := f.ledger.Leaderboard(ctx, limit)
	if err != nil {
		common.HandleError(r, err, "logs leaderboard")
		return
	}
	if _, err := r.Embed(BuildLeaderboardEmbed(rows, f.names(inv))); err != nil {
		log.WithError(err).Error("Failed to send leaderboard")
	}
}

// Stats combines a user's ledger record with their roll activity
func (f *Feature) Stats(ctx context.Context, r common.Responder, inv common.Invocation, userID int64) {
	stats, err := f.ledger.StatsFor(ctx, userID)
	if err != nil {
		common.HandleError(r, err, "stats")
		return
	}

	if f.rolls != nil {
		stats.Rolls = f.rolls.RollCount(ctx, userID)
		if last, err := f.rolls.History(ctx, userID, 1); err == nil && len(last) > 0 {
			stats.LastRoll = last[0]
		}
	}

	name := common.GetDisplayNameInt64(f.session, inv.Guild, userID)
	if _, err := r.Embed(BuildStatsEmbed(stats, name)); err != nil {
		log.WithError(err).Error("Failed to send stats")
	}
}

func (f *Feature) names(inv common.Invocation) common.DisplayNameFunc {
	return common.SessionDisplayNames(f.session, inv.Guild)
}
