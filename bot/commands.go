package bot

import (
	"fmt"

	"ewager/bot/common"

	"github.com/bwmarrin/discordgo"
)

func idOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: description,
		Required:    true,
		MinValue:    floatPtr(1),
	}
}

func limitOption(max int) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "limit",
		Description: "How many entries to show",
		MinValue:    floatPtr(1),
		MaxValue:    float64(max),
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// slashCommands builds the application command definitions
func slashCommands(minSize, maxSize, maxList int) []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "tournament",
			Description: "Create and manage tournaments",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Open registration for a new tournament",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "size",
							Description: "Maximum number of players",
							MinValue:    floatPtr(float64(minSize)),
							MaxValue:    float64(maxSize),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join a tournament",
					Options:     []*discordgo.ApplicationCommandOption{idOption("Tournament ID")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave a tournament",
					Options:     []*discordgo.ApplicationCommandOption{idOption("Tournament ID")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Close registration and start a tournament (moderators)",
					Options:     []*discordgo.ApplicationCommandOption{idOption("Tournament ID")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "complete",
					Description: "Finish a tournament and draw the winner (host)",
					Options:     []*discordgo.ApplicationCommandOption{idOption("Tournament ID")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List open and running tournaments",
				},
			},
		},
		{
			Name:        "gamble",
			Description: "Record gamble results",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "log",
					Description: "Log a win for one player over another",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "winner",
							Description: "Who won",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "loser",
							Description: "Who lost",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "logs",
			Description: "View logged gamble results",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "recent",
					Description: "Most recent results",
					Options:     []*discordgo.ApplicationCommandOption{limitOption(maxList)},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Players ranked by wins",
					Options:     []*discordgo.ApplicationCommandOption{limitOption(maxList)},
				},
			},
		},
		{
			Name:        "stats",
			Description: "View a player's wins, losses and rolls",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to check stats for (defaults to you)",
				},
			},
		},
		{
			Name:        "roll",
			Description: "Roll the dice",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "number",
					Description: "Roll a number from 1 to 100",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "pokemon",
					Description: "Roll a random Pokémon",
				},
			},
		},
		{
			Name:        "recent",
			Description: "Show recent Pokémon rolls",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Whose rolls to show (defaults to you)",
				},
				limitOption(maxList),
			},
		},
		{
			Name:        "help",
			Description: "Show what the bot can do",
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := slashCommands(b.config.TournamentMinSize, b.config.TournamentMaxSize, common.MaxListLimit)

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
