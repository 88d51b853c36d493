package playback

import "errors"

// ErrNoSuchItem is returned when selecting outside the playlist
var ErrNoSuchItem = errors.New("no such playlist item")
