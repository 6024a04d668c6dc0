package ledger

import (
	"context"

	"ewager/bot/common"
	"ewager/service"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the manual result ledger feature
type Feature struct {
	session *discordgo.Session
	ledger  service.LedgerService
	rolls   service.RollService
}

// NewFeature creates a new ledger feature instance
func NewFeature(session *discordgo.Session, ledger service.LedgerService, rolls service.RollService) *Feature {
	return &Feature{
		session: session,
		ledger:  ledger,
		rolls:   rolls,
	}
}

// HandleGambleCommand handles /gamble log
func (f *Feature) HandleGambleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 || options[0].Name != "log" {
		common.RespondWithError(s, i, "Please specify a subcommand: log")
		return
	}

	var winnerID, loserID int64
	for _, opt := range options[0].Options {
		u := opt.UserValue(s)
		if u == nil {
			continue
		}
		switch opt.Name {
		case "winner":
			winnerID = common.ParseSnowflake(u.ID)
		case "loser":
			loserID = common.ParseSnowflake(u.ID)
		}
	}
	if winnerID == 0 || loserID == 0 {
		common.RespondWithError(s, i, "Please specify a winner and a loser")
		return
	}

	f.LogResult(context.Background(), common.NewInteractionResponder(s, i), common.InvocationFromInteraction(i), winnerID, loserID)
}

// HandleLogsCommand handles /logs recent and /logs leaderboard
func (f *Feature) HandleLogsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: recent or leaderboard")
		return
	}

	ctx := context.Background()
	r := common.NewInteractionResponder(s, i)
	inv := common.InvocationFromInteraction(i)

	limit := common.DefaultRecentLogs
	for _, opt := range options[0].Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}

	switch options[0].Name {
	case "recent":
		f.Recent(ctx, r, inv, limit)
	case "leaderboard":
		f.Leaderboard(ctx, r, inv, limit)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleStatsCommand handles /stats [user]
func (f *Feature) HandleStatsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	inv := common.InvocationFromInteraction(i)
	target := inv.UserID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			if u := opt.UserValue(s); u != nil {
				target = common.ParseSnowflake(u.ID)
			}
		}
	}

	f.Stats(context.Background(), common.NewInteractionResponder(s, i), inv, target)
}
