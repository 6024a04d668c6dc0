package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTradeChannelMatcherMatchesName(t *testing.T) {
	m := NewTradeChannelMatcher([]string{"trade", "gamble"})

	tests := []struct {
		name     string
		expected bool
	}{
		{"pokemon-trades", true},
		{"Gamble Zone", true},
		{"TRADE", true},
		{"general", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.MatchesName(tt.name))
		})
	}
}

func TestTradeChannelMatcherCachesLookups(t *testing.T) {
	m := NewTradeChannelMatcher([]string{"trade"})
	calls := 0
	lookup := func(channelID string) (string, error) {
		calls++
		return "trade-hub", nil
	}

	assert.True(t, m.Matches("1", lookup))
	assert.True(t, m.Matches("1", lookup))
	assert.Equal(t, 1, calls)

	m.Forget("1")
	assert.True(t, m.Matches("1", lookup))
	assert.Equal(t, 2, calls)
}

func TestTradeChannelMatcherLookupFailureIsNotCached(t *testing.T) {
	m := NewTradeChannelMatcher([]string{"trade"})
	fail := true
	lookup := func(channelID string) (string, error) {
		if fail {
			return "", errors.New("unavailable")
		}
		return "trade", nil
	}

	assert.False(t, m.Matches("9", lookup))
	fail = false
	assert.True(t, m.Matches("9", lookup))
}
