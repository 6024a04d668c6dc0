package service

import (
	"context"
	"testing"

	"ewager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID   = int64(900)
	testChannelID = int64(500)
	testMessageID = int64(7000)
)

func newRoutedTournament(t *testing.T, size int) (TournamentService, *models.Tournament) {
	t.Helper()
	registry, _ := newTestRegistry(nil)
	tournament := createTournament(t, registry, 1, size)
	require.NoError(t, registry.BindStatusMessage(context.Background(), tournament.ID, testMessageID))
	return registry, tournament
}

func reaction(userID int64, emoji string, added bool) ReactionEvent {
	return ReactionEvent{
		MessageID: testMessageID,
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		UserID:    userID,
		Emoji:     emoji,
		Added:     added,
	}
}

func TestReactionRouter_JoinAndLeave(t *testing.T) {
	ctx := context.Background()
	registry, tournament := newRoutedTournament(t, 4)
	authorizer := new(MockAuthorizer)
	router := NewReactionRouter(registry, authorizer, DefaultReactionEmojis())

	outcome := router.Route(ctx, reaction(10, "🎯", true))
	assert.True(t, outcome.Changed)
	assert.Equal(t, ReactionJoin, outcome.Action)
	assert.Equal(t, tournament.ID, outcome.TournamentID)
	require.NotNil(t, outcome.Tournament)
	assert.Equal(t, []int64{10}, outcome.Tournament.Participants)

	// Removing the join reaction leaves
	outcome = router.Route(ctx, reaction(10, "🎯", false))
	assert.True(t, outcome.Changed)
	assert.Equal(t, ReactionLeave, outcome.Action)
	assert.Empty(t, outcome.Tournament.Participants)

	// The leave emoji also leaves
	router.Route(ctx, reaction(11, "🎯", true))
	outcome = router.Route(ctx, reaction(11, "❌", true))
	assert.True(t, outcome.Changed)
	assert.Equal(t, ReactionLeave, outcome.Action)

	// Removing the leave emoji does nothing
	outcome = router.Route(ctx, reaction(11, "❌", false))
	assert.False(t, outcome.Changed)
	assert.Equal(t, ReactionIgnored, outcome.Action)

	authorizer.AssertNotCalled(t, "IsModerator", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReactionRouter_RejectionsAreSilent(t *testing.T) {
	ctx := context.Background()
	registry, tournament := newRoutedTournament(t, 4)
	router := NewReactionRouter(registry, new(MockAuthorizer), DefaultReactionEmojis())

	for _, user := range []int64{1, 2, 3, 4} {
		require.True(t, router.Route(ctx, reaction(user, "🎯", true)).Changed)
	}

	tests := []struct {
		name     string
		reaction ReactionEvent
	}{
		{"join when full", reaction(5, "🎯", true)},
		{"duplicate join", reaction(1, "🎯", true)},
		{"leave by stranger", reaction(6, "❌", true)},
		{"unknown emoji", reaction(1, "🔥", true)},
		{"unknown message", ReactionEvent{MessageID: 1, UserID: 1, Emoji: "🎯", Added: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := router.Route(ctx, tt.reaction)
			assert.False(t, outcome.Changed)
			assert.Nil(t, outcome.Tournament)
		})
	}

	got, _ := registry.Describe(ctx, tournament.ID)
	assert.Equal(t, []int64{1, 2, 3, 4}, got.Participants)
}

func TestReactionRouter_StartUsesCapabilityQuery(t *testing.T) {
	ctx := context.Background()
	registry, tournament := newRoutedTournament(t, 4)
	authorizer := new(MockAuthorizer)
	authorizer.On("IsModerator", ctx, testGuildID, testChannelID, int64(10)).Return(false)
	authorizer.On("IsModerator", ctx, testGuildID, testChannelID, int64(99)).Return(true)
	router := NewReactionRouter(registry, authorizer, DefaultReactionEmojis())

	router.Route(ctx, reaction(10, "🎯", true))
	router.Route(ctx, reaction(11, "🎯", true))

	// Participant without moderator rights
	outcome := router.Route(ctx, reaction(10, "▶️", true))
	assert.False(t, outcome.Changed)
	got, _ := registry.Describe(ctx, tournament.ID)
	assert.Equal(t, models.TournamentStatusRegistration, got.Status)

	// Moderator, sent without the presentation selector
	outcome = router.Route(ctx, reaction(99, "▶", true))
	assert.True(t, outcome.Changed)
	assert.Equal(t, ReactionStart, outcome.Action)
	assert.Equal(t, models.TournamentStatusActive, outcome.Tournament.Status)

	// Once active, joins are ignored
	outcome = router.Route(ctx, reaction(12, "🎯", true))
	assert.False(t, outcome.Changed)

	authorizer.AssertExpectations(t)
}

func TestReactionRouter_StartBelowQuorum(t *testing.T) {
	ctx := context.Background()
	registry, _ := newRoutedTournament(t, 4)
	authorizer := new(MockAuthorizer)
	authorizer.On("IsModerator", ctx, testGuildID, testChannelID, int64(99)).Return(true)
	router := NewReactionRouter(registry, authorizer, DefaultReactionEmojis())

	router.Route(ctx, reaction(10, "🎯", true))

	outcome := router.Route(ctx, reaction(99, "▶️", true))
	assert.False(t, outcome.Changed)
	assert.Equal(t, ReactionStart, outcome.Action)
}

func TestReactionRouter_NilAuthorizerDeniesStart(t *testing.T) {
	ctx := context.Background()
	registry, _ := newRoutedTournament(t, 4)
	router := NewReactionRouter(registry, nil, DefaultReactionEmojis())

	router.Route(ctx, reaction(10, "🎯", true))
	router.Route(ctx, reaction(11, "🎯", true))

	assert.False(t, router.Route(ctx, reaction(10, "▶️", true)).Changed)
}
