package common

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if guildID != "" {
		member, err := s.GuildMember(guildID, userID)
		if err == nil && member != nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				if member.User.GlobalName != "" {
					return member.User.GlobalName
				}
				return member.User.Username
			}
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// GetDisplayNameInt64 is a convenience wrapper that accepts int64 user IDs
func GetDisplayNameInt64(s *discordgo.Session, guildID string, userID int64) string {
	return GetDisplayName(s, guildID, strconv.FormatInt(userID, 10))
}

// ParseUserID converts a Discord user ID string to int64
func ParseUserID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

// ParseSnowflake converts any Discord snowflake string to int64, returning 0 when empty or invalid
func ParseSnowflake(id string) int64 {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatUserID converts an int64 user ID to string
func FormatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID int64) string {
	return "<@" + FormatUserID(userID) + ">"
}

// ParseMention extracts the user id from <@123> or <@!123>
func ParseMention(token string) (int64, bool) {
	if !strings.HasPrefix(token, "<@") || !strings.HasSuffix(token, ">") {
		return 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
	inner = strings.TrimPrefix(inner, "!")
	id, err := strconv.ParseInt(inner, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// DisplayNameFunc resolves a user id to a display name
type DisplayNameFunc func(userID int64) string

// SessionDisplayNames returns a resolver backed by guild member lookups
func SessionDisplayNames(s *discordgo.Session, guildID string) DisplayNameFunc {
	return func(userID int64) string {
		return GetDisplayNameInt64(s, guildID, userID)
	}
}
