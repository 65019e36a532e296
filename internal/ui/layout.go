package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which company and genre
	// columns are hidden.
	LayoutCompactWidth = 100

	// LayoutTrackWidth is the minimum width to show the publishing track.
	LayoutTrackWidth = 130
)

// Log pane limits.
const (
	// LogPaneHeight is the number of log lines shown under the main view.
	LogPaneHeight = 8

	// LogTailLines is how many lines are read from the end of the log file.
	LogTailLines = 200
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// RequestTimeout bounds searches and detail lookups started from the UI.
	RequestTimeout = 15 * time.Second

	// StatusTTL is how long a status message stays in the footer.
	StatusTTL = 6 * time.Second
)
