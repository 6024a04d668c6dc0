package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestHasModeratorPermission(t *testing.T) {
	assert.True(t, hasModeratorPermission(discordgo.PermissionManageMessages))
	assert.True(t, hasModeratorPermission(discordgo.PermissionAdministrator|discordgo.PermissionSendMessages))
	assert.False(t, hasModeratorPermission(discordgo.PermissionSendMessages|discordgo.PermissionAddReactions))
}

func TestHasModeratorRole(t *testing.T) {
	guildRoles := []*discordgo.Role{
		{ID: "1", Name: "Moderator"},
		{ID: "2", Name: "Trainer"},
		{ID: "3", Name: "Staff", Permissions: discordgo.PermissionAdministrator},
		{ID: "4", Name: " admin "},
	}

	tests := []struct {
		name     string
		held     []string
		expected bool
	}{
		{"named moderator role", []string{"2", "1"}, true},
		{"role with admin permission", []string{"3"}, true},
		{"trimmed admin name", []string{"4"}, true},
		{"ordinary role", []string{"2"}, false},
		{"no roles", nil, false},
		{"unknown role id", []string{"99"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasModeratorRole(tt.held, guildRoles))
		})
	}
}
