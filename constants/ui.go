package constants

import "time"

// Frame pacing
const (
	// FrameUpdateInterval is the render period (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond
)

// Layout
const (
	// LoadingBarWidth is the bar width in cells, clamped to screen width
	LoadingBarWidth = 40

	// PanelWidth is the playlist panel width in cells
	PanelWidth = 36

	// StatusBarHeight is reserved at the bottom of the screen
	StatusBarHeight = 1
)

// Status bar text
const (
	AudioStr       = " ♪ "
	MutedStr       = " ✕ "
	PingOfflineStr = "offline"
	PingPendingStr = "-- ms"
	RedirectTitle  = "Nothing to see here"
)

// Click ripple
const (
	// RippleDuration is how long a click ripple stays on screen
	RippleDuration = 700 * time.Millisecond

	// RippleMaxRadius is the ring radius in cells at the end of the ripple
	RippleMaxRadius = 3
)

// Page text
const (
	PageTitle    = "✿ petalfall ✿"
	PageSubtitle = "a quiet place where the blossoms never stop falling"
	PanelTitle   = "Playlist"
	LoadingLabel = "Loading"
	HelpStr      = "[p] playlist  [↑↓/enter] play  [n/b] next/prev  [m] mute  [q] quit"
)
