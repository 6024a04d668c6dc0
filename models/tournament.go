package models

import (
	"slices"
	"time"
)

// TournamentStatus represents the lifecycle state of a tournament
type TournamentStatus string

const (
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusActive       TournamentStatus = "active"
	TournamentStatusCompleted    TournamentStatus = "completed"
)

// IsValid reports whether s is a known status
func (s TournamentStatus) IsValid() bool {
	switch s {
	case TournamentStatusRegistration, TournamentStatusActive, TournamentStatusCompleted:
		return true
	}
	return false
}

// Tournament is a bracket registration driven by reactions on a status message.
// Status only moves forward: registration -> active -> completed, or registration -> completed.
type Tournament struct {
	ID              int64            `db:"id" json:"id"`
	HostID          int64            `db:"host_discord_id" json:"host_id"`
	GuildID         int64            `db:"guild_id" json:"guild_id"`
	ChannelID       int64            `db:"channel_id" json:"channel_id"`
	Size            int              `db:"size" json:"size"`
	Participants    []int64          `json:"participants"`
	Status          TournamentStatus `db:"status" json:"status"`
	WinnerID        *int64           `db:"winner_discord_id" json:"winner_id,omitempty"`
	StartedBy       *int64           `db:"started_by" json:"started_by,omitempty"`
	StatusMessageID *int64           `db:"status_message_id" json:"status_message_id,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	StartedAt       *time.Time       `db:"started_at" json:"started_at,omitempty"`
	CompletedAt     *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

// IsParticipant reports whether userID has joined the tournament
func (t *Tournament) IsParticipant(userID int64) bool {
	return slices.Contains(t.Participants, userID)
}

// IsFull reports whether every slot is taken
func (t *Tournament) IsFull() bool {
	return len(t.Participants) >= t.Size
}

// IsOpen reports whether the tournament still accepts registrations
func (t *Tournament) IsOpen() bool {
	return t.Status == TournamentStatusRegistration
}

// Clone returns a deep copy that shares no memory with t
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	c := *t
	c.Participants = slices.Clone(t.Participants)
	if c.Participants == nil {
		c.Participants = []int64{}
	}
	c.WinnerID = cloneInt64(t.WinnerID)
	c.StartedBy = cloneInt64(t.StartedBy)
	c.StatusMessageID = cloneInt64(t.StatusMessageID)
	c.StartedAt = cloneTime(t.StartedAt)
	c.CompletedAt = cloneTime(t.CompletedAt)
	return &c
}

// TournamentFilter narrows List results. A zero filter returns every non-completed tournament.
type TournamentFilter struct {
	Statuses         []TournamentStatus
	IncludeCompleted bool
	HostID           *int64
}

// Matches reports whether t passes the filter
func (f TournamentFilter) Matches(t *Tournament) bool {
	if len(f.Statuses) > 0 {
		if !slices.Contains(f.Statuses, t.Status) {
			return false
		}
	} else if !f.IncludeCompleted && t.Status == TournamentStatusCompleted {
		return false
	}
	if f.HostID != nil && t.HostID != *f.HostID {
		return false
	}
	return true
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
