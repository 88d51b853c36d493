package audio

import "sync/atomic"

// Gate decides whether playback may start
// It stays closed until the first user gesture unless autoplay is allowed
type Gate struct {
	open atomic.Bool
}

// NewGate creates a gate, open from the start when allowAutoplay is set
func NewGate(allowAutoplay bool) *Gate {
	g := &Gate{}
	g.open.Store(allowAutoplay)
	return g
}

// NoteGesture records a user interaction, opening the gate for good
func (g *Gate) NoteGesture() {
	g.open.Store(true)
}

// Allowed reports whether playback may start now
func (g *Gate) Allowed() bool {
	return g.open.Load()
}
