package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconError    = "❌"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Window sizing
const (
	WindowWidth  float32 = 720
	WindowHeight float32 = 520

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 460
)
