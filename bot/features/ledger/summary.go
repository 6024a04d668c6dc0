package ledger

import (
	"context"
	"fmt"
	"time"

	"ewager/bot/common"

	log "github.com/sirupsen/logrus"
)

// PostDailySummary posts the last 24h of ledger results to channelID
func (f *Feature) PostDailySummary(ctx context.Context, guildID, channelID string) error {
	since := time.Now().Add(-24 * time.Hour)
	entries, err := f.ledger.ResultsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to load results since %s: %w", since.Format(time.RFC3339), err)
	}

	embed := BuildDailySummaryEmbed(entries, since, common.SessionDisplayNames(f.session, guildID))
	if _, err := f.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to send daily summary: %w", err)
	}

	log.WithFields(log.Fields{
		"channel_id": channelID,
		"results":    len(entries),
	}).Info("Posted daily ledger summary")
	return nil
}
