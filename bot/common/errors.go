package common

import (
	"errors"
	"fmt"

	"ewager/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (bad input, closed registration, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

const systemErrorMessage = "Something went wrong. Please try again later."

// NewSystemError creates an error for system issues (collaborator down, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: systemErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// userMessages maps service rejections to what the user sees
var userMessages = []struct {
	target  error
	message string
}{
	{service.ErrInvalidSize, "Tournament size is out of range."},
	{service.ErrInvalidParties, "Winner and loser must be different users."},
	{service.ErrInvalidLimit, "Limit must be a positive number."},
	{service.ErrTournamentNotFound, "No tournament with that ID."},
	{service.ErrNotAuthorized, "Only moderators can do that."},
	{service.ErrNotHost, "Only the host can complete this tournament."},
	{service.ErrRegistrationClosed, "Registration for this tournament is closed."},
	{service.ErrAlreadyJoined, "You have already joined this tournament."},
	{service.ErrNotParticipant, "You are not registered in this tournament."},
	{service.ErrTournamentFull, "This tournament is full."},
	{service.ErrQuorumNotMet, "Not enough participants to start yet."},
	{service.ErrAlreadyCompleted, "This tournament is already completed."},
	{service.ErrNoParticipants, "Nobody has joined this tournament."},
	{service.ErrCatalogUnavailable, "The Pokédex is not responding right now. Try again in a moment."},
}

// FromServiceError converts a service error into a BotError.
// Domain rejections become user errors; anything else is a system error.
func FromServiceError(err error, logMessage string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	for _, m := range userMessages {
		if errors.Is(err, m.target) {
			userErr := NewUserError(m.message, logMessage)
			userErr.Err = err
			if service.KindOf(err) == service.KindCollaborator {
				userErr.Ephemeral = false
			}
			return userErr
		}
	}
	return NewSystemError(err, logMessage)
}

// HandleError logs err and reports it through r
func HandleError(r Responder, err error, command string) {
	botErr := FromServiceError(err, "Unexpected error in bot command")

	fields := log.Fields{
		"command":      command,
		"error":        botErr.Error(),
		"user_message": botErr.UserMessage,
		"context":      botErr.Context,
	}
	if botErr.UserMessage == systemErrorMessage {
		log.WithFields(fields).Error(botErr.LogMessage)
	} else {
		log.WithFields(fields).Debug(botErr.LogMessage)
	}

	r.Error(botErr.UserMessage, botErr.Ephemeral)
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}
