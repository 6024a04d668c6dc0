package tournaments

import (
	"context"
	"strconv"

	"ewager/bot/common"
	"ewager/models"
	"ewager/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Create opens a tournament, posts its status message and binds the message to it
func (f *Feature) Create(ctx context.Context, r common.Responder, inv common.Invocation, size int) {
	if f.config.CreateRequiresMod && !f.isModerator(ctx, inv) {
		log.WithFields(log.Fields{
			"user_id":    inv.UserID,
			"channel_id": inv.ChannelID,
		}).Warn("Unauthorized tournament create attempt")
		common.HandleError(r, service.ErrNotAuthorized, "tournament create")
		return
	}

	t, err := f.tournaments.Create(ctx, service.CreateTournamentParams{
		HostID:    inv.UserID,
		Size:      size,
		GuildID:   inv.GuildID,
		ChannelID: inv.ChannelID,
	})
	if err != nil {
		common.HandleError(r, err, "tournament create")
		return
	}

	names := f.names(inv)
	msg, err := r.Embed(BuildStatusEmbed(t, f.config.MinParticipants, f.config.Emojis, names))
	if err != nil {
		log.WithError(err).WithField("tournament_id", t.ID).Error("Failed to post tournament status message")
		return
	}
	if msg == nil {
		return
	}

	messageID, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		log.WithError(err).WithField("message_id", msg.ID).Error("Status message has a non-numeric id")
		return
	}
	if err := f.tournaments.BindStatusMessage(ctx, t.ID, messageID); err != nil {
		log.WithError(err).WithField("tournament_id", t.ID).Error("Failed to bind status message")
		return
	}

	for _, emoji := range []string{f.config.Emojis.Join, f.config.Emojis.Leave} {
		if err := f.session.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
			log.WithError(err).WithField("emoji", emoji).Warn("Failed to add reaction to status message")
		}
	}
}

// runAction performs join, leave, start or complete on behalf of the invoker
func (f *Feature) runAction(ctx context.Context, r common.Responder, inv common.Invocation, action string, id int64) {
	var (
		t   *models.Tournament
		err error
	)
	switch action {
	case "join":
		t, err = f.tournaments.Join(ctx, id, inv.UserID)
	case "leave":
		t, err = f.tournaments.Leave(ctx, id, inv.UserID)
	case "start":
		authorized := f.isModerator(ctx, inv)
		t, err = f.tournaments.Start(ctx, id, inv.UserID, authorized)
	case "complete":
		t, err = f.tournaments.Complete(ctx, id, inv.UserID)
	}
	if err != nil {
		common.HandleError(r, err, "tournament "+action)
		return
	}

	names := f.names(inv)
	f.refreshStatusMessage(t, names)

	var embed *discordgo.MessageEmbed
	switch action {
	case "start":
		embed = BuildStartedEmbed(t, names)
	case "complete":
		embed = BuildCompletedEmbed(t, names)
	default:
		embed = BuildStatusEmbed(t, f.config.MinParticipants, f.config.Emojis, names)
	}
	if _, err := r.Embed(embed); err != nil {
		log.WithError(err).WithField("tournament_id", t.ID).Error("Failed to send tournament response")
	}
}

// List shows every tournament that has not completed
func (f *Feature) List(ctx context.Context, r common.Responder, inv common.Invocation) {
	list, err := f.tournaments.List(ctx, models.TournamentFilter{})
	if err != nil {
		common.HandleError(r, err, "tournament list")
		return
	}
	if _, err := r.Embed(BuildListEmbed(list, f.names(inv))); err != nil {
		log.WithError(err).Error("Failed to send tournament list")
	}
}

func (f *Feature) refreshStatusMessage(t *models.Tournament, names common.DisplayNameFunc) {
	if t == nil || t.StatusMessageID == nil || t.ChannelID == 0 {
		return
	}
	embed := BuildStatusEmbed(t, f.config.MinParticipants, f.config.Emojis, names)
	_, err := f.session.ChannelMessageEditEmbed(common.FormatUserID(t.ChannelID), common.FormatUserID(*t.StatusMessageID), embed)
	if err != nil {
		log.WithError(err).WithField("tournament_id", t.ID).Warn("Failed to refresh tournament status message")
	}
}

func (f *Feature) sendEmbed(channelID int64, embed *discordgo.MessageEmbed) {
	if _, err := f.session.ChannelMessageSendEmbed(common.FormatUserID(channelID), embed); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Warn("Failed to send tournament announcement")
	}
}

func (f *Feature) isModerator(ctx context.Context, inv common.Invocation) bool {
	return f.authorizer != nil && f.authorizer.IsModerator(ctx, inv.GuildID, inv.ChannelID, inv.UserID)
}

func (f *Feature) names(inv common.Invocation) common.DisplayNameFunc {
	return common.SessionDisplayNames(f.session, inv.Guild)
}

func parsePositive(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
