package testutil

import (
	"time"

	"ewager/models"

	"github.com/google/uuid"
)

// CreateTestTournament creates a tournament in registration with the given participants
func CreateTestTournament(id, hostID int64, size int, participants ...int64) *models.Tournament {
	if participants == nil {
		participants = []int64{}
	}
	return &models.Tournament{
		ID:           id,
		HostID:       hostID,
		GuildID:      900,
		ChannelID:    500,
		Size:         size,
		Participants: participants,
		Status:       models.TournamentStatusRegistration,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// CreateTestWagerLog creates a ledger entry with default values
func CreateTestWagerLog(sequence, winnerID, loserID int64) *models.WagerLogEntry {
	return &models.WagerLogEntry{
		Sequence:  sequence,
		WinnerID:  winnerID,
		LoserID:   loserID,
		LoggedBy:  winnerID,
		GuildID:   900,
		ChannelID: 500,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// CreateTestTradeMessage creates a captured trade message
func CreateTestTradeMessage(userID, channelID int64, content string) *models.TradeMessage {
	return &models.TradeMessage{
		ID:        uuid.New(),
		UserID:    userID,
		ChannelID: channelID,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// CreateTestRoll creates a roll record for a well-known catalog entry
func CreateTestRoll(userID int64, catalogID int, name string) *models.RollRecord {
	stats := models.BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45}
	return &models.RollRecord{
		UserID:    userID,
		CatalogID: catalogID,
		Name:      name,
		Types:     []string{"grass", "poison"},
		Stats:     stats,
		StatTotal: stats.Total(),
		Level:     50,
		Height:    7,
		Weight:    69,
		SpriteURL: "https://example.test/sprite.png",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}
