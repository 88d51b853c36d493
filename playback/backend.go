// Package playback owns the playlist widget and the welcome voice-over
package playback

// Track is one loaded audio item
// Implementations deliver results and end notifications on the page scheduler
type Track interface {
	// Play attempts to start; result fires exactly once, never synchronously
	Play(result func(error))
	Stop()
	SetVolume(v float64)
	// OnEnded fires on natural end only, never after Stop
	OnEnded(fn func())
}

// Backend loads tracks from source references
type Backend interface {
	Load(src string) (Track, error)
}

// BackendFunc adapts a function to Backend
type BackendFunc func(src string) (Track, error)

// Load implements Backend
func (f BackendFunc) Load(src string) (Track, error) {
	return f(src)
}

// Item is one playlist entry
type Item struct {
	Title  string `yaml:"title"`
	Source string `yaml:"source"`
}
