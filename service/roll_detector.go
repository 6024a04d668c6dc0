package service

import (
	"regexp"
	"strconv"
	"strings"
)

// RollIntent is the classification of a free-text message
type RollIntent int

const (
	IntentNone RollIntent = iota
	IntentNumericRoll
	IntentCatalogRoll
)

func (i RollIntent) String() string {
	switch i {
	case IntentNumericRoll:
		return "numeric_roll"
	case IntentCatalogRoll:
		return "catalog_roll"
	default:
		return "none"
	}
}

// RollDetectorConfig configures the prefix classes the detector understands
type RollDetectorConfig struct {
	// GenericPrefixes are single-token prefixes shared with other bots, e.g. "!" or "?"
	GenericPrefixes []string
	// ShortcutPrefixes are this bot's own command namespace, e.g. "e!" or "e."
	ShortcutPrefixes []string
	// CatalogSize is the token users type to ask for a catalog roll, e.g. "roll 1025"
	CatalogSize int
}

// DefaultRollDetectorConfig returns the prefixes the bot has always answered to
func DefaultRollDetectorConfig(catalogSize int) RollDetectorConfig {
	return RollDetectorConfig{
		GenericPrefixes:  []string{"!", "?", ">", "<", "~", ".", "p!", "m!", "k!", "c!"},
		ShortcutPrefixes: []string{"e!", "e.", "e?", "e>", "e<", "e~"},
		CatalogSize:      catalogSize,
	}
}

// RollDetector classifies chat messages into roll intents. It is stateless after construction.
type RollDetector struct {
	genericCatalog  *regexp.Regexp
	shortcutCatalog *regexp.Regexp
	numeric         *regexp.Regexp
}

// NewRollDetector compiles the detector patterns
func NewRollDetector(cfg RollDetectorConfig) *RollDetector {
	token := regexp.QuoteMeta(strconv.Itoa(cfg.CatalogSize))

	genericKeywords := []string{
		`roll\s+` + token,
		`roll\s+pokemon`,
		`roll\s+poke`,
		`w\s+` + token,
		`wish\s+` + token,
	}
	shortcutKeywords := []string{
		`w\s+` + token,
		`wish\s+` + token,
		`roll\s+` + token,
	}

	d := &RollDetector{
		genericCatalog:  compilePrefixed(cfg.GenericPrefixes, genericKeywords),
		shortcutCatalog: compilePrefixed(cfg.ShortcutPrefixes, shortcutKeywords),
		numeric:         compilePrefixed(cfg.GenericPrefixes, []string{`roll`}),
	}
	return d
}

// compilePrefixed builds (?i)(p1|p2|...)(k1|k2|...); nil when there are no prefixes
func compilePrefixed(prefixes, keywords []string) *regexp.Regexp {
	if len(prefixes) == 0 || len(keywords) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(p)))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)(?:` + strings.Join(keywords, "|") + `)`)
}

// Classify returns the roll intent of text. Catalog rolls take priority over numeric rolls.
func (d *RollDetector) Classify(text string) RollIntent {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return IntentNone
	}

	if matches(d.genericCatalog, text) || matches(d.shortcutCatalog, text) {
		return IntentCatalogRoll
	}
	if matches(d.numeric, text) {
		return IntentNumericRoll
	}
	return IntentNone
}

func matches(re *regexp.Regexp, text string) bool {
	return re != nil && re.MatchString(text)
}
