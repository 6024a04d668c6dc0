package common

import "github.com/bwmarrin/discordgo"

// Invocation identifies who ran a command and where
type Invocation struct {
	GuildID   int64
	ChannelID int64
	UserID    int64
	Guild     string // raw guild id for member lookups
}

// InvocationFromInteraction extracts the invoker of a slash command
func InvocationFromInteraction(i *discordgo.InteractionCreate) Invocation {
	inv := Invocation{
		GuildID:   ParseSnowflake(i.GuildID),
		ChannelID: ParseSnowflake(i.ChannelID),
		Guild:     i.GuildID,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		inv.UserID = ParseSnowflake(i.Member.User.ID)
	case i.User != nil:
		inv.UserID = ParseSnowflake(i.User.ID)
	}
	return inv
}

// InvocationFromMessage extracts the author of a prefixed message
func InvocationFromMessage(m *discordgo.MessageCreate) Invocation {
	inv := Invocation{
		GuildID:   ParseSnowflake(m.GuildID),
		ChannelID: ParseSnowflake(m.ChannelID),
		Guild:     m.GuildID,
	}
	if m.Author != nil {
		inv.UserID = ParseSnowflake(m.Author.ID)
	}
	return inv
}
