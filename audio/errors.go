package audio

import "errors"

// Sentinel errors
var (
	// ErrPlaybackBlocked mirrors browser autoplay policy: no sound before the first user gesture
	ErrPlaybackBlocked = errors.New("playback blocked until user interaction")

	ErrNoAudioDevice     = errors.New("no audio device")
	ErrUnsupportedSource = errors.New("unsupported audio source")
	ErrTrackStopped      = errors.New("track stopped before playback started")
	ErrTrackReused       = errors.New("track already played")
)
