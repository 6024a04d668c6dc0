package rolls

import (
	"fmt"
	"strings"
	"time"

	"ewager/bot/common"
	"ewager/models"

	"github.com/bwmarrin/discordgo"
)

// BuildNumericEmbed shows a 1-100 roll
func BuildNumericEmbed(rollerName string, value int) *discordgo.MessageEmbed {
	color := common.ColorInfo
	switch {
	case value == 100:
		color = common.ColorGold
	case value == 1:
		color = common.ColorDanger
	}

	return &discordgo.MessageEmbed{
		Title:       "🎲 Roll",
		Description: fmt.Sprintf("**%s** rolled **%d** (1-100)", rollerName, value),
		Color:       color,
	}
}

// BuildCatalogEmbed shows a catalog roll with its types, measurements and base stats
func BuildCatalogEmbed(record *models.RollRecord, rollerName string) *discordgo.MessageEmbed {
	label := "Type"
	if len(record.Types) > 1 {
		label = "Types"
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("#%d %s", record.CatalogID, record.Name),
		Color:     common.ColorSuccess,
		Timestamp: record.CreatedAt.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: label, Value: common.JoinOrDash(record.Types, " / "), Inline: true},
			{Name: "Level", Value: fmt.Sprintf("%d", record.Level), Inline: true},
			{Name: "Height", Value: fmt.Sprintf("%.1f m", record.HeightMeters()), Inline: true},
			{Name: "Weight", Value: fmt.Sprintf("%.1f kg", record.WeightKilograms()), Inline: true},
			{Name: "Base Stats", Value: formatStats(record.Stats)},
			{Name: "Base Stat Total", Value: fmt.Sprintf("%d", record.StatTotal), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Rolled by " + rollerName,
		},
	}
	if record.SpriteURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: record.SpriteURL}
	}
	return embed
}

// BuildRecentEmbed lists a user's latest rolls, newest first
func BuildRecentEmbed(history []*models.RollRecord, ownerName string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎒 Recent rolls for %s", ownerName),
		Color: common.ColorPrimary,
	}
	if len(history) == 0 {
		embed.Description = "No rolls yet."
		return embed
	}

	lines := make([]string, 0, len(history))
	for _, r := range history {
		lines = append(lines, fmt.Sprintf("%s **%s** Lv.%d · BST %d",
			common.FormatDiscordTimestamp(r.CreatedAt, "R"), r.Name, r.Level, r.StatTotal))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func formatStats(s models.BaseStats) string {
	return fmt.Sprintf("```\nHP  %3d   Atk %3d   Def %3d\nSpA %3d   SpD %3d   Spe %3d\n```",
		s.HP, s.Attack, s.Defense, s.SpecialAttack, s.SpecialDefense, s.Speed)
}
