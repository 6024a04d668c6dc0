package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"ewager/bot/common"
	"ewager/models"

	"github.com/bwmarrin/discordgo"
)

const summaryTopWinners = 3

// BuildLoggedEmbed confirms a logged result
func BuildLoggedEmbed(entry *models.WagerLogEntry, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "📒 Result logged",
		Description: fmt.Sprintf("**%s** beat **%s**", names(entry.WinnerID), names(entry.LoserID)),
		Color:       common.ColorSuccess,
		Timestamp:   entry.CreatedAt.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s · logged by %s", entry.DisplayID(), names(entry.LoggedBy)),
		},
	}
}

// BuildRecentEmbed lists ledger entries, newest first
func BuildRecentEmbed(entries []*models.WagerLogEntry, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📒 Recent results",
		Color: common.ColorPrimary,
	}
	if len(entries) == 0 {
		embed.Description = "No results have been logged yet."
		return embed
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("`%s` %s beat %s · %s",
			e.DisplayID(), names(e.WinnerID), names(e.LoserID), common.FormatDiscordTimestamp(e.CreatedAt, "R")))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

// BuildLeaderboardEmbed ranks users by wins
func BuildLeaderboardEmbed(rows []*models.LeaderboardEntry, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Gamble Leaderboard",
		Color:     common.ColorGold,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(rows) == 0 {
		embed.Description = "No results have been logged yet."
		return embed
	}

	var table strings.Builder
	table.WriteString("```\n")
	table.WriteString(fmt.Sprintf("%-4s %-18s %4s %4s %7s\n", "", "Player", "W", "L", "Win%"))
	table.WriteString(strings.Repeat("-", 41) + "\n")
	for idx, row := range rows {
		table.WriteString(fmt.Sprintf("%-4s %-18s %4d %4d %7s\n",
			common.FormatRank(idx+1), common.Truncate(names(row.UserID), 18), row.Wins, row.Losses, common.FormatWinRate(row.Wins, row.Losses)))
	}
	table.WriteString("```")
	embed.Description = table.String()
	return embed
}

// BuildStatsEmbed shows a user's wins, losses and roll activity
func BuildStatsEmbed(stats *models.LedgerStats, name string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("📊 Stats for %s", name),
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wins", Value: fmt.Sprintf("%d", stats.Wins), Inline: true},
			{Name: "Losses", Value: fmt.Sprintf("%d", stats.Losses), Inline: true},
			{Name: "Win Rate", Value: common.FormatWinRate(stats.Wins, stats.Losses), Inline: true},
			{Name: "Pokémon Rolled", Value: fmt.Sprintf("%d", stats.Rolls), Inline: true},
		},
	}

	last := "-"
	if stats.LastRoll != nil {
		last = fmt.Sprintf("%s (Lv.%d, BST %d) %s", stats.LastRoll.Name, stats.LastRoll.Level,
			stats.LastRoll.StatTotal, common.FormatDiscordTimestamp(stats.LastRoll.CreatedAt, "R"))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Last Roll", Value: last})
	return embed
}

// BuildDailySummaryEmbed summarizes results logged since the given time
func BuildDailySummaryEmbed(entries []*models.WagerLogEntry, since time.Time, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🗓️ Daily Gamble Summary",
		Color:     common.ColorInfo,
		Timestamp: time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Since " + since.UTC().Format("Jan 2 15:04 MST"),
		},
	}
	if len(entries) == 0 {
		embed.Description = "No results were logged in the last 24 hours."
		return embed
	}

	embed.Description = fmt.Sprintf("**%d** results logged in the last 24 hours.", len(entries))

	wins := make(map[int64]int)
	for _, e := range entries {
		wins[e.WinnerID]++
	}
	type winner struct {
		id   int64
		wins int
	}
	ranked := make([]winner, 0, len(wins))
	for id, n := range wins {
		ranked = append(ranked, winner{id, n})
	}
	slices.SortFunc(ranked, func(a, b winner) int {
		if c := cmp.Compare(b.wins, a.wins); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	if len(ranked) > summaryTopWinners {
		ranked = ranked[:summaryTopWinners]
	}

	lines := make([]string, 0, len(ranked))
	for idx, w := range ranked {
		lines = append(lines, fmt.Sprintf("%s %s · %d wins", common.FormatRank(idx+1), names(w.id), w.wins))
	}
	embed.Fields = []*discordgo.MessageEmbedField{{Name: "Top Winners", Value: strings.Join(lines, "\n")}}
	return embed
}
