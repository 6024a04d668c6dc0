package bot

import (
	"strings"

	"ewager/bot/common"
)

// PrefixCommand is a parsed "<prefix><name> args..." message
type PrefixCommand struct {
	Prefix string
	Name   string
	Args   []string
}

// ParsePrefixCommand splits a message into a command name and arguments.
// The longest matching prefix wins, so "e!" is preferred over "!" for "e!roll".
func ParsePrefixCommand(content string, prefixes []string) (PrefixCommand, bool) {
	content = strings.TrimSpace(content)
	lower := strings.ToLower(content)

	best := ""
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(lower, p) && len(p) > len(best) {
			best = p
		}
	}
	if best == "" {
		return PrefixCommand{}, false
	}

	fields := strings.Fields(content[len(best):])
	if len(fields) == 0 {
		return PrefixCommand{}, false
	}

	args := fields[1:]
	for i, a := range args {
		// Mentions keep their case; everything else is matched case-insensitively
		if !strings.HasPrefix(a, "<@") {
			args[i] = strings.ToLower(a)
		}
	}

	return PrefixCommand{
		Prefix: best,
		Name:   strings.ToLower(fields[0]),
		Args:   args,
	}, true
}

// Mentions returns the user ids mentioned in args, in order
func (c PrefixCommand) Mentions() []int64 {
	var ids []int64
	for _, a := range c.Args {
		if id, ok := common.ParseMention(a); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
