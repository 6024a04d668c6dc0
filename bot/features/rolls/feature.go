package rolls

import (
	"context"

	"ewager/bot/common"
	"ewager/service"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the roll feature
type Feature struct {
	session *discordgo.Session
	rolls   service.RollService
}

// NewFeature creates a new roll feature instance
func NewFeature(session *discordgo.Session, rolls service.RollService) *Feature {
	return &Feature{
		session: session,
		rolls:   rolls,
	}
}

// HandleRollCommand handles the /roll command and its subcommands
func (f *Feature) HandleRollCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: number or pokemon")
		return
	}

	ctx := context.Background()
	r := common.NewInteractionResponder(s, i)
	inv := common.InvocationFromInteraction(i)

	switch options[0].Name {
	case "number":
		f.Numeric(ctx, r, inv)
	case "pokemon":
		f.Catalog(ctx, r, inv)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleRecentCommand handles the /recent command
func (f *Feature) HandleRecentCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	inv := common.InvocationFromInteraction(i)
	target := inv.UserID
	limit := common.DefaultRecentRolls

	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			if u := opt.UserValue(s); u != nil {
				target = common.ParseSnowflake(u.ID)
			}
		case "limit":
			limit = int(opt.IntValue())
		}
	}

	f.Recent(context.Background(), common.NewInteractionResponder(s, i), inv, target, limit)
}
