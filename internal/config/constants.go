package config

import "time"

// Timer durations.
const (
	ReminderInterval = 60 * time.Second
	UITickInterval   = time.Second
	ToastLifetime    = 6 * time.Second
)

// Persisted keys. Each value is a JSON document.
const (
	KeyTasks                  = "tasks"
	KeyStreak                 = "streak"
	KeyAccentColor            = "accent-color"
	KeyThemeMode              = "theme-mode"
	KeyTutorialSeen           = "tutorial-seen"
	KeyNotificationPermission = "notification-permission"
)

// Theme modes.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Application settings.
const (
	AppName     = "streakboard"
	DBFileName  = "streakboard.db"
	LogFileName = "streakboard.log"
	EnvPrefix   = "STREAKBOARD"
)

// Input constraints.
const (
	// MaxTitleLength is the maximum task title length in runes.
	MaxTitleLength = 100

	// MaxDescriptionLength is the maximum description length.
	MaxDescriptionLength = 500

	// DueDateLayout is the typed due date format accepted by forms and the CLI.
	DueDateLayout = "2006-01-02 15:04"
)

// Layout constants.
const (
	// MinColumnWidth is the minimum width for a board column.
	MinColumnWidth = 18

	// MaxVisibleTasks limits tasks shown per column before scrolling.
	MaxVisibleTasks = 12

	// MaxToasts limits the toast strip height.
	MaxToasts = 3
)
