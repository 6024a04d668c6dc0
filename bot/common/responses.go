package common

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Responder replies to whatever triggered a command: a slash interaction or a prefixed message
type Responder interface {
	// Embed posts an embed and returns the created message
	Embed(embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	// Text posts a plain message
	Text(content string) error
	// Error reports a failure to the user
	Error(message string, ephemeral bool)
}

// InteractionResponder answers a slash command
type InteractionResponder struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
}

// NewInteractionResponder creates a responder for a slash command
func NewInteractionResponder(s *discordgo.Session, i *discordgo.InteractionCreate) *InteractionResponder {
	return &InteractionResponder{Session: s, Interaction: i}
}

// Embed responds with an embed and fetches the resulting message so callers can react to it
func (r *InteractionResponder) Embed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	if err := RespondWithEmbed(r.Session, r.Interaction, embed, false); err != nil {
		return nil, err
	}
	return r.Session.InteractionResponse(r.Interaction.Interaction)
}

// Text responds with plain content
func (r *InteractionResponder) Text(content string) error {
	return r.Session.InteractionRespond(r.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// Error responds with an error message
func (r *InteractionResponder) Error(message string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("❌ %s", message),
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := r.Session.InteractionRespond(r.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// MessageResponder answers a prefixed message in the same channel
type MessageResponder struct {
	Session *discordgo.Session
	Message *discordgo.MessageCreate
}

// NewMessageResponder creates a responder for a prefixed message
func NewMessageResponder(s *discordgo.Session, m *discordgo.MessageCreate) *MessageResponder {
	return &MessageResponder{Session: s, Message: m}
}

// Embed sends an embed to the message's channel
func (r *MessageResponder) Embed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return r.Session.ChannelMessageSendEmbed(r.Message.ChannelID, embed)
}

// Text sends plain content to the message's channel
func (r *MessageResponder) Text(content string) error {
	_, err := r.Session.ChannelMessageSend(r.Message.ChannelID, content)
	return err
}

// Error replies to the original message; channel messages cannot be ephemeral
func (r *MessageResponder) Error(message string, ephemeral bool) {
	_, err := r.Session.ChannelMessageSendReply(r.Message.ChannelID, fmt.Sprintf("❌ %s", message), r.Message.Reference())
	if err != nil {
		log.Errorf("Error sending error reply: %v", err)
	}
}

// RespondWithEmbed sends an embed as an interaction response
func RespondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}
