package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorError   = 0xED4245 // Red (alias for ColorDanger)
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorGold    = 0xF1C40F
)

// Listing defaults for prefix and slash commands
const (
	DefaultRecentRolls = 5
	DefaultRecentLogs  = 10
	MaxListLimit       = 25
)

// MaxNamedParticipants is the largest roster shown by name on a status message
const MaxNamedParticipants = 10
