package constants

const (
	AppName            = "stride"
	DefaultConfigPath  = "~/.config/stride/stride.db"
	DefaultKeyringUser = "sync-token"
	Version            = "v0.3.0"

	// DateFormat is the standard calendar date format used throughout the
	// application (YYYY-MM-DD).
	DateFormat = "2006-01-02"

	// TimestampFormat is the fixed-width UTC timestamp format used for
	// updatedAt stamps and the sync watermark. Fixed width + UTC means
	// lexicographic comparison of two stamps matches chronological order,
	// which the last-write-wins merge relies on.
	TimestampFormat = "2006-01-02T15:04:05.000Z"

	// Challenge limits
	MinDurationDays = 1
	MaxDurationDays = 365
	MinGoals        = 1
	MaxGoals        = 6

	// Sync defaults
	DefaultSyncTimeoutSec = 30
	DefaultServeAddr      = ":8484"
)

// GoalPalette is the fixed set of colors a goal may use.
var GoalPalette = []string{"red", "orange", "yellow", "green", "blue", "purple"}

// ValidGoalColor reports whether color is in the palette.
func ValidGoalColor(color string) bool {
	for _, c := range GoalPalette {
		if c == color {
			return true
		}
	}
	return false
}
