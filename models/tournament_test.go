package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTournament_Clone(t *testing.T) {
	winner := int64(2)
	started := time.Now()
	orig := &Tournament{
		ID:           1,
		HostID:       10,
		Size:         4,
		Participants: []int64{1, 2, 3},
		Status:       TournamentStatusCompleted,
		WinnerID:     &winner,
		StartedAt:    &started,
	}

	c := orig.Clone()
	assert.Equal(t, orig, c)

	c.Participants[0] = 99
	*c.WinnerID = 3
	assert.Equal(t, int64(1), orig.Participants[0])
	assert.Equal(t, int64(2), *orig.WinnerID)
	assert.NotSame(t, orig.StartedAt, c.StartedAt)
}

func TestTournament_CloneNilParticipants(t *testing.T) {
	c := (&Tournament{ID: 1}).Clone()
	assert.NotNil(t, c.Participants)
	assert.Empty(t, c.Participants)
}

func TestTournamentFilter_Matches(t *testing.T) {
	host := int64(10)
	open := &Tournament{HostID: 10, Status: TournamentStatusRegistration}
	done := &Tournament{HostID: 11, Status: TournamentStatusCompleted}

	assert.True(t, TournamentFilter{}.Matches(open))
	assert.False(t, TournamentFilter{}.Matches(done))
	assert.True(t, TournamentFilter{IncludeCompleted: true}.Matches(done))
	assert.True(t, TournamentFilter{Statuses: []TournamentStatus{TournamentStatusCompleted}}.Matches(done))
	assert.False(t, TournamentFilter{Statuses: []TournamentStatus{TournamentStatusActive}}.Matches(open))
	assert.True(t, TournamentFilter{HostID: &host}.Matches(open))
	assert.False(t, TournamentFilter{HostID: &host, IncludeCompleted: true}.Matches(done))
}

func TestBaseStats_Total(t *testing.T) {
	s := BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45}
	assert.Equal(t, 318, s.Total())
}
