package render

import "time"

// Context provides frame state for renderers, passed by value
type Context struct {
	Now   time.Time
	Frame uint64

	// Screen dimensions (terminal size)
	Width  int
	Height int
}

// ContentHeight is the screen height above the status bar
func (c Context) ContentHeight(statusRows int) int {
	return max(c.Height-statusRows, 0)
}
