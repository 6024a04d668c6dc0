package tournaments

import (
	"fmt"
	"strings"
	"time"

	"ewager/bot/common"
	"ewager/models"
	"ewager/service"

	"github.com/bwmarrin/discordgo"
)

var statusLabels = map[models.TournamentStatus]string{
	models.TournamentStatusRegistration: "📝 Registration Open",
	models.TournamentStatusActive:       "⚔️ In Progress",
	models.TournamentStatusCompleted:    "🏁 Completed",
}

// BuildStatusEmbed creates the status message a tournament's reactions are bound to
func BuildStatusEmbed(t *models.Tournament, quorum int, emojis service.ReactionEmojis, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🏆 Tournament #%d", t.ID),
		Color:     statusColor(t.Status),
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Host", Value: common.GetUserMention(t.HostID), Inline: true},
			{Name: "Size", Value: fmt.Sprintf("%d", t.Size), Inline: true},
			{Name: "Status", Value: statusLabels[t.Status], Inline: true},
			{Name: "Participants", Value: fmt.Sprintf("%d/%d", len(t.Participants), t.Size), Inline: true},
		},
	}

	if t.IsOpen() {
		embed.Description = fmt.Sprintf("React with %s to join or %s to leave.", emojis.Join, emojis.Leave)
	}

	if len(t.Participants) > 0 && len(t.Participants) <= common.MaxNamedParticipants {
		lines := make([]string, 0, len(t.Participants))
		for idx, id := range t.Participants {
			lines = append(lines, fmt.Sprintf("%d. %s", idx+1, names(id)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Roster",
			Value: strings.Join(lines, "\n"),
		})
	}

	if t.IsOpen() && len(t.Participants) >= quorum {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("For Mods/Admins %s", emojis.Start),
			Value: fmt.Sprintf("Enough players have joined. React with %s to start.", emojis.Start),
		})
	}

	if t.WinnerID != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Winner",
			Value: common.GetUserMention(*t.WinnerID),
		})
	}

	return embed
}

// BuildStartedEmbed announces that registration has closed
func BuildStartedEmbed(t *models.Tournament, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	players := make([]string, 0, len(t.Participants))
	for _, id := range t.Participants {
		players = append(players, names(id))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚔️ Tournament #%d has started!", t.ID),
		Description: fmt.Sprintf("%d players are in. Good luck!", len(t.Participants)),
		Color:       common.ColorWarning,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Players", Value: common.Truncate(common.JoinOrDash(players, ", "), 1024)},
		},
	}
	if t.StartedBy != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Started by " + names(*t.StartedBy)}
	}
	return embed
}

// BuildCompletedEmbed announces the winner
func BuildCompletedEmbed(t *models.Tournament, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🏁 Tournament #%d is over", t.ID),
		Color:     common.ColorGold,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if t.WinnerID != nil {
		embed.Description = fmt.Sprintf("🥇 %s wins!", common.GetUserMention(*t.WinnerID))
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Winner", Value: names(*t.WinnerID), Inline: true},
			{Name: "Players", Value: fmt.Sprintf("%d", len(t.Participants)), Inline: true},
		}
	}
	return embed
}

// BuildListEmbed lists open and running tournaments
func BuildListEmbed(list []*models.Tournament, names common.DisplayNameFunc) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Tournaments",
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if len(list) == 0 {
		embed.Description = "No tournaments are running. Start one with `tournament create <size>`."
		return embed
	}

	lines := make([]string, 0, len(list))
	for _, t := range list {
		lines = append(lines, fmt.Sprintf("**#%d** %s · %d/%d · host %s",
			t.ID, statusLabels[t.Status], len(t.Participants), t.Size, names(t.HostID)))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func statusColor(status models.TournamentStatus) int {
	switch status {
	case models.TournamentStatusActive:
		return common.ColorWarning
	case models.TournamentStatusCompleted:
		return common.ColorSuccess
	default:
		return common.ColorPrimary
	}
}
