package service

import (
	"context"
	"strings"

	"ewager/models"

	log "github.com/sirupsen/logrus"
)

// ReactionAction is what a reaction asked the registry to do
type ReactionAction string

const (
	ReactionIgnored ReactionAction = "ignored"
	ReactionJoin    ReactionAction = "join"
	ReactionLeave   ReactionAction = "leave"
	ReactionStart   ReactionAction = "start"
)

// ReactionEmojis binds emoji to registry actions
type ReactionEmojis struct {
	Join  string
	Leave string
	Start string
}

// DefaultReactionEmojis returns the emoji placed on every status message
func DefaultReactionEmojis() ReactionEmojis {
	return ReactionEmojis{
		Join:  "🎯",
		Leave: "❌",
		Start: "▶️",
	}
}

// ReactionEvent is an inbound reaction add or remove
type ReactionEvent struct {
	MessageID int64
	GuildID   int64
	ChannelID int64
	UserID    int64
	Emoji     string
	Added     bool
}

// ReactionOutcome reports what a reaction did. Rejections are never errors.
type ReactionOutcome struct {
	TournamentID int64
	Action       ReactionAction
	Changed      bool
	Tournament   *models.Tournament // snapshot after the change, nil unless Changed
}

type reactionRouter struct {
	registry   TournamentService
	authorizer Authorizer
	emojis     ReactionEmojis
}

// NewReactionRouter creates a router for status message reactions
func NewReactionRouter(registry TournamentService, authorizer Authorizer, emojis ReactionEmojis) ReactionRouter {
	return &reactionRouter{
		registry:   registry,
		authorizer: authorizer,
		emojis:     emojis,
	}
}

// Route applies a reaction to the tournament bound to its message.
// Unknown messages, unbound emoji and every registry rejection are silent no-ops.
func (r *reactionRouter) Route(ctx context.Context, reaction ReactionEvent) ReactionOutcome {
	tournamentID, ok := r.registry.ResolveByStatusMessage(reaction.MessageID)
	if !ok {
		return ReactionOutcome{Action: ReactionIgnored}
	}

	action := r.actionFor(reaction.Emoji, reaction.Added)
	outcome := ReactionOutcome{TournamentID: tournamentID, Action: action}

	var (
		snapshot *models.Tournament
		err      error
	)
	switch action {
	case ReactionJoin:
		snapshot, err = r.registry.Join(ctx, tournamentID, reaction.UserID)
	case ReactionLeave:
		snapshot, err = r.registry.Leave(ctx, tournamentID, reaction.UserID)
	case ReactionStart:
		// Only the start emoji needs the capability query
		authorized := r.authorizer != nil && r.authorizer.IsModerator(ctx, reaction.GuildID, reaction.ChannelID, reaction.UserID)
		snapshot, err = r.registry.Start(ctx, tournamentID, reaction.UserID, authorized)
	default:
		return outcome
	}

	if err != nil {
		log.WithFields(log.Fields{
			"tournament_id": tournamentID,
			"user_id":       reaction.UserID,
			"action":        action,
			"reason":        err,
		}).Debug("Reaction rejected")
		return outcome
	}

	outcome.Changed = true
	outcome.Tournament = snapshot
	return outcome
}

func (r *reactionRouter) actionFor(emoji string, added bool) ReactionAction {
	emoji = normalizeEmoji(emoji)
	switch {
	case emoji == normalizeEmoji(r.emojis.Join) && added:
		return ReactionJoin
	case emoji == normalizeEmoji(r.emojis.Join) && !added:
		// Taking back the join reaction is a leave
		return ReactionLeave
	case emoji == normalizeEmoji(r.emojis.Leave) && added:
		return ReactionLeave
	case emoji == normalizeEmoji(r.emojis.Start) && added:
		return ReactionStart
	}
	return ReactionIgnored
}

// normalizeEmoji drops the emoji presentation selector, which clients send inconsistently
func normalizeEmoji(emoji string) string {
	return strings.ReplaceAll(strings.TrimSpace(emoji), "\ufe0f", "")
}
