package tournaments

import (
	"context"

	"ewager/bot/common"
	"ewager/service"

	"github.com/bwmarrin/discordgo"
)

// Config carries the tournament settings the chat surface needs
type Config struct {
	DefaultSize       int
	MinParticipants   int
	CreateRequiresMod bool
	Emojis            service.ReactionEmojis
}

// Feature represents the tournament feature
type Feature struct {
	session     *discordgo.Session
	tournaments service.TournamentService
	authorizer  service.Authorizer
	config      Config
}

// NewFeature creates a new tournament feature instance
func NewFeature(session *discordgo.Session, tournaments service.TournamentService, authorizer service.Authorizer, config Config) *Feature {
	return &Feature{
		session:     session,
		tournaments: tournaments,
		authorizer:  authorizer,
		config:      config,
	}
}

// HandleCommand handles the /tournament command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: create, join, leave, start, complete or list")
		return
	}

	ctx := context.Background()
	r := common.NewInteractionResponder(s, i)
	inv := common.InvocationFromInteraction(i)
	sub := options[0]

	switch sub.Name {
	case "create":
		size := f.config.DefaultSize
		for _, opt := range sub.Options {
			if opt.Name == "size" {
				size = int(opt.IntValue())
			}
		}
		f.Create(ctx, r, inv, size)
	case "join", "leave", "start", "complete":
		var id int64
		for _, opt := range sub.Options {
			if opt.Name == "id" {
				id = opt.IntValue()
			}
		}
		f.runAction(ctx, r, inv, sub.Name, id)
	case "list":
		f.List(ctx, r, inv)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandlePrefix handles "tournament <sub> [arg]" from a prefixed message
func (f *Feature) HandlePrefix(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx := context.Background()
	r := common.NewMessageResponder(s, m)
	inv := common.InvocationFromMessage(m)

	if len(args) == 0 {
		f.List(ctx, r, inv)
		return
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "create":
		size := f.config.DefaultSize
		if len(rest) > 0 {
			n, ok := parsePositive(rest[0])
			if !ok {
				r.Error("Usage: tournament create <size>", false)
				return
			}
			size = int(n)
		}
		f.Create(ctx, r, inv, size)
	case "join", "leave", "start", "complete":
		if len(rest) == 0 {
			r.Error("Usage: tournament "+sub+" <id>", false)
			return
		}
		id, ok := parsePositive(rest[0])
		if !ok {
			r.Error("Tournament ID must be a number.", false)
			return
		}
		f.runAction(ctx, r, inv, sub, id)
	case "list":
		f.List(ctx, r, inv)
	default:
		r.Error("Unknown subcommand. Try create, join, leave, start, complete or list.", false)
	}
}

// HandleReactionOutcome refreshes the status message after a reaction changed a tournament
func (f *Feature) HandleReactionOutcome(guildID string, outcome service.ReactionOutcome) {
	if !outcome.Changed || outcome.Tournament == nil {
		return
	}
	names := common.SessionDisplayNames(f.session, guildID)
	f.refreshStatusMessage(outcome.Tournament, names)

	if outcome.Action == service.ReactionStart && outcome.Tournament.ChannelID != 0 {
		embed := BuildStartedEmbed(outcome.Tournament, names)
		f.sendEmbed(outcome.Tournament.ChannelID, embed)
	}
}
