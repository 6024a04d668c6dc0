package common

import (
	"errors"
	"fmt"
	"testing"

	"ewager/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFromServiceError(t *testing.T) {
	t.Run("domain rejection becomes user error", func(t *testing.T) {
		err := fmt.Errorf("join: %w", service.ErrTournamentFull)
		botErr := FromServiceError(err, "join failed")
		assert.Equal(t, "This tournament is full.", botErr.UserMessage)
		assert.True(t, botErr.Ephemeral)
		assert.ErrorIs(t, botErr, service.ErrTournamentFull)
	})

	t.Run("catalog outage is shown publicly", func(t *testing.T) {
		err := fmt.Errorf("%w: entity 137: timeout", service.ErrCatalogUnavailable)
		botErr := FromServiceError(err, "roll failed")
		assert.False(t, botErr.Ephemeral)
		assert.Contains(t, botErr.UserMessage, "Pokédex")
	})

	t.Run("unknown error is a system error", func(t *testing.T) {
		botErr := FromServiceError(errors.New("nil pointer"), "boom")
		assert.Equal(t, "Something went wrong. Please try again later.", botErr.UserMessage)
		assert.Equal(t, "boom: nil pointer", botErr.Error())
	})

	t.Run("bot errors pass through", func(t *testing.T) {
		original := NewUserError("Usage: e!logs [n]", "bad args")
		assert.Same(t, original, FromServiceError(original, "ignored"))
	})
}

type recordingResponder struct {
	errors    []string
	ephemeral []bool
}

func (r *recordingResponder) Embed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}
func (r *recordingResponder) Text(content string) error { return nil }
func (r *recordingResponder) Error(message string, ephemeral bool) {
	r.errors = append(r.errors, message)
	r.ephemeral = append(r.ephemeral, ephemeral)
}

func TestHandleError(t *testing.T) {
	r := &recordingResponder{}
	HandleError(r, service.ErrNotHost, "tournament complete")
	HandleError(r, errors.New("disk"), "logs")

	assert.Equal(t, []string{
		"Only the host can complete this tournament.",
		"Something went wrong. Please try again later.",
	}, r.errors)
}
