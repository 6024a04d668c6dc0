package bot

import (
	"fmt"
	"strings"

	"ewager/bot/common"

	"github.com/bwmarrin/discordgo"
)

// buildHelpEmbed lists the prefix and slash commands
func buildHelpEmbed(prefix string, catalogSize int) *discordgo.MessageEmbed {
	p := func(cmd string) string { return "`" + prefix + cmd + "`" }

	rolls := []string{
		fmt.Sprintf("%s or %s · roll a random Pokémon", p("w"), p(fmt.Sprint(catalogSize))),
		fmt.Sprintf("%s or %s · roll 1-100", p("roll"), p("number")),
		fmt.Sprintf("%s · your latest Pokémon", p("recent [@user] [n]")),
	}
	ledger := []string{
		fmt.Sprintf("%s · log a result", p("gamble log @winner @loser")),
		fmt.Sprintf("%s · same as above", p("w @winner @loser")),
		fmt.Sprintf("%s · recent results", p("logs [n]")),
		fmt.Sprintf("%s · top players", p("leaderboard")),
		fmt.Sprintf("%s · wins, losses and rolls", p("stats [@user]")),
	}
	tournaments := []string{
		fmt.Sprintf("%s · open registration", p("tournament create <size>")),
		p("tournament join|leave|start|complete <id>"),
		fmt.Sprintf("%s · what's running", p("tournament list")),
		"React 🎯 to join, ❌ to leave. Mods react ▶️ to start.",
	}

	return &discordgo.MessageEmbed{
		Title:       "📖 eWager Help",
		Description: "Every command also works as a slash command.",
		Color:       common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎲 Rolls", Value: strings.Join(rolls, "\n")},
			{Name: "📒 Ledger", Value: strings.Join(ledger, "\n")},
			{Name: "🏆 Tournaments", Value: strings.Join(tournaments, "\n")},
		},
	}
}
