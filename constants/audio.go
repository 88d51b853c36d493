package constants

import "time"

// Audio output
const (
	// AudioSampleRate is the speaker rate, decoded sources are resampled to it
	AudioSampleRate = 44100

	// AudioBufferDuration sizes the speaker buffer
	AudioBufferDuration = 100 * time.Millisecond

	// AudioResampleQuality is passed to beep.Resample
	AudioResampleQuality = 4

	// ToneAmplitude scales synthesized tone sources
	ToneAmplitude = 0.3

	// ToneAttack and ToneRelease shape synthesized tone sources
	ToneAttack  = 20 * time.Millisecond
	ToneRelease = 200 * time.Millisecond
)

// Playback volumes, linear 0.0-1.0
const (
	AmbientVolume   = 0.6
	DuckedVolume    = 0.2
	VoiceOverVolume = 1.0
)

// Voice-over and ducking timing
const (
	// VoiceOverDelay is the wait between page load and the autoplay attempt
	VoiceOverDelay = 1 * time.Second

	// FadeDuration is the total length of the ambient volume fade
	FadeDuration = 2 * time.Second

	// FadeSteps is the number of discrete volume updates in a fade
	FadeSteps = 20
)
