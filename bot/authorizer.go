package bot

import (
	"context"
	"strings"

	"ewager/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// moderatorRoles are role names that grant moderation regardless of channel permissions
var moderatorRoles = map[string]bool{
	"mod":           true,
	"moderator":     true,
	"admin":         true,
	"administrator": true,
}

const moderatorPermissions = discordgo.PermissionManageMessages | discordgo.PermissionAdministrator

// DiscordAuthorizer answers moderator checks against the live guild
type DiscordAuthorizer struct {
	session *discordgo.Session
}

// NewDiscordAuthorizer creates an authorizer bound to a session
func NewDiscordAuthorizer(session *discordgo.Session) *DiscordAuthorizer {
	return &DiscordAuthorizer{session: session}
}

// IsModerator reports whether the user can manage messages in the channel or holds a moderator role
func (a *DiscordAuthorizer) IsModerator(ctx context.Context, guildID, channelID, userID int64) bool {
	user := common.FormatUserID(userID)

	if channelID != 0 {
		perms, err := a.session.UserChannelPermissions(user, common.FormatUserID(channelID))
		if err == nil && hasModeratorPermission(perms) {
			return true
		}
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Debug("Channel permission lookup failed, falling back to roles")
		}
	}

	if guildID == 0 {
		return false
	}
	guild := common.FormatUserID(guildID)

	member, err := a.session.GuildMember(guild, user)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to look up guild member")
		return false
	}

	roles, err := a.session.GuildRoles(guild)
	if err != nil {
		log.WithError(err).WithField("guild_id", guildID).Warn("Failed to look up guild roles")
		return false
	}

	return hasModeratorRole(member.Roles, roles)
}

func hasModeratorPermission(perms int64) bool {
	return perms&moderatorPermissions != 0
}

func hasModeratorRole(memberRoleIDs []string, guildRoles []*discordgo.Role) bool {
	held := make(map[string]bool, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		held[id] = true
	}
	for _, role := range guildRoles {
		if !held[role.ID] {
			continue
		}
		if moderatorRoles[strings.ToLower(strings.TrimSpace(role.Name))] {
			return true
		}
		if hasModeratorPermission(role.Permissions) {
			return true
		}
	}
	return false
}
