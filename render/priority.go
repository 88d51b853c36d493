package render

// Priority determines render order. Lower values render first
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityParticle
	PriorityContent
	PriorityEffect
	PriorityPanel
	PriorityLoading
	PriorityUI
	PriorityOverlay
)
