package bot

import (
	"strings"
	"sync"

	"github.com/gosimple/slug"
)

// TradeChannelMatcher decides whether a channel's messages go to the trade audit trail
type TradeChannelMatcher struct {
	keywords []string

	mu    sync.RWMutex
	cache map[string]bool // channel id -> matched
}

// NewTradeChannelMatcher creates a matcher for channels named after any keyword
func NewTradeChannelMatcher(keywords []string) *TradeChannelMatcher {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = slug.Make(k); k != "" {
			normalized = append(normalized, k)
		}
	}
	return &TradeChannelMatcher{
		keywords: normalized,
		cache:    make(map[string]bool),
	}
}

// MatchesName reports whether the slugified channel name contains a keyword
func (m *TradeChannelMatcher) MatchesName(name string) bool {
	s := slug.Make(name)
	if s == "" {
		return false
	}
	for _, k := range m.keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Matches resolves a channel by id, asking lookup for its name the first time it is seen
func (m *TradeChannelMatcher) Matches(channelID string, lookup func(channelID string) (string, error)) bool {
	m.mu.RLock()
	matched, ok := m.cache[channelID]
	m.mu.RUnlock()
	if ok {
		return matched
	}

	name, err := lookup(channelID)
	if err != nil {
		// Not cached, the next message retries
		return false
	}
	matched = m.MatchesName(name)

	m.mu.Lock()
	m.cache[channelID] = matched
	m.mu.Unlock()
	return matched
}

// Forget drops a cached channel, used when a channel is renamed
func (m *TradeChannelMatcher) Forget(channelID string) {
	m.mu.Lock()
	delete(m.cache, channelID)
	m.mu.Unlock()
}
