package constants

import "time"

// Loading screen progress
const (
	// ProgressTickInterval is the period of the progress simulator timer
	ProgressTickInterval = 80 * time.Millisecond

	// ProgressCompleteDelay separates reaching 100% from the completion signal
	ProgressCompleteDelay = 600 * time.Millisecond

	// ProgressMax is the terminal progress value
	ProgressMax = 100.0

	// Band ceilings, increments shrink as value crosses each one
	ProgressFastCeiling = 70.0
	ProgressSlowCeiling = 90.0

	// Maximum random increment per tick within each band
	ProgressFastStep = 12.0
	ProgressMidStep  = 4.0
	ProgressSlowStep = 1.5
)

// Reveal transition
const (
	// RevealFadeDuration is how long the loading screen fades before content shows
	RevealFadeDuration = 600 * time.Millisecond
)
