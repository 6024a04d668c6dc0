package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrefixCommand(t *testing.T) {
	prefixes := []string{"e!", "!"}

	tests := []struct {
		name    string
		content string
		ok      bool
		prefix  string
		command string
		args    []string
	}{
		{"shortcut prefix", "e!roll", true, "e!", "roll", []string{}},
		{"generic prefix", "!logs 5", true, "!", "logs", []string{"5"}},
		{"case insensitive", "E!Tournament CREATE 8", true, "e!", "tournament", []string{"create", "8"}},
		{"mentions keep case", "e!w <@123> <@!456>", true, "e!", "w", []string{"<@123>", "<@!456>"}},
		{"catalog shortcut", "e!1025", true, "e!", "1025", []string{}},
		{"leading whitespace", "   e!help", true, "e!", "help", []string{}},
		{"prefix only", "e!", false, "", "", nil},
		{"no prefix", "hello there", false, "", "", nil},
		{"other bot prefix", "p!roll", false, "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := ParsePrefixCommand(tt.content, prefixes)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.prefix, cmd.Prefix)
			assert.Equal(t, tt.command, cmd.Name)
			assert.Equal(t, tt.args, cmd.Args)
		})
	}
}

func TestPrefixCommandMentions(t *testing.T) {
	cmd, ok := ParsePrefixCommand("e!gamble log <@11> <@22>", []string{"e!"})
	require.True(t, ok)
	assert.Equal(t, []int64{11, 22}, cmd.Mentions())

	cmd, ok = ParsePrefixCommand("e!w", []string{"e!"})
	require.True(t, ok)
	assert.Empty(t, cmd.Mentions())
}
