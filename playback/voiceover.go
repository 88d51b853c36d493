package playback

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/status"
)

// VoiceOverState is the observable voice-over state
type VoiceOverState struct {
	HasPlayed bool
	Volume    float64
}

// VoiceOver plays the welcome clip once after a delay
// A rejected first attempt is retried exactly once on the next click
type VoiceOver struct {
	sched   engine.Scheduler
	backend Backend
	source  string
	delay   time.Duration
	volume  float64

	timer     engine.Timer
	track     Track
	hasPlayed bool
	attempts  int
	armed     bool
	finished  bool

	onFinished []func()
	statPlayed *atomic.Bool
}

// NewVoiceOver creates a voice-over for source, reg may be nil
func NewVoiceOver(sched engine.Scheduler, backend Backend, source string, delay time.Duration, volume float64, reg *status.Registry) *VoiceOver {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &VoiceOver{
		sched:      sched,
		backend:    backend,
		source:     source,
		delay:      delay,
		volume:     volume,
		statPlayed: reg.Flag(status.VoiceOverPlayed),
	}
}

// OnFinished registers the natural-end signal, fired at most once
func (v *VoiceOver) OnFinished(fn func()) {
	v.onFinished = append(v.onFinished, fn)
}

// Schedule arms the single delayed attempt; later calls are ignored
func (v *VoiceOver) Schedule() {
	if v.timer != nil || v.attempts > 0 {
		return
	}
	v.timer = v.sched.AfterFunc(v.delay, func() {
		v.timer = nil
		v.attempt()
	})
}

func (v *VoiceOver) attempt() {
	if v.hasPlayed || v.track != nil {
		return
	}
	v.attempts++

	track, err := v.backend.Load(v.source)
	if err != nil {
		log.Printf("voiceover: load %q: %v", v.source, err)
		return
	}
	v.track = track

	track.SetVolume(v.volume)
	track.OnEnded(func() { v.ended(track) })
	track.Play(func(err error) { v.resolved(track, err) })
}

func (v *VoiceOver) resolved(track Track, err error) {
	if track != v.track {
		return
	}
	if err != nil {
		v.track = nil
		log.Printf("voiceover: play %q (attempt %d): %v", v.source, v.attempts, err)
		if v.attempts == 1 {
			v.armed = true
		}
		return
	}
	v.hasPlayed = true
	v.statPlayed.Store(true)
}

func (v *VoiceOver) ended(track Track) {
	if track != v.track || v.finished {
		return
	}
	v.finished = true
	v.track = nil
	for _, fn := range v.onFinished {
		fn()
	}
}

// HandleClick consumes the armed retry, returns true if it started one
func (v *VoiceOver) HandleClick() bool {
	if !v.armed {
		return false
	}
	v.armed = false
	v.attempt()
	return true
}

// RetryArmed reports whether the next click will retry playback
func (v *VoiceOver) RetryArmed() bool {
	return v.armed
}

// Attempts returns how many playback attempts were made
func (v *VoiceOver) Attempts() int {
	return v.attempts
}

// State returns the current voice-over state
func (v *VoiceOver) State() VoiceOverState {
	return VoiceOverState{HasPlayed: v.hasPlayed, Volume: v.volume}
}

// Playing reports whether the clip is audible
func (v *VoiceOver) Playing() bool {
	return v.hasPlayed && v.track != nil
}

// Stop cancels a pending attempt or silences the clip without the finished signal
func (v *VoiceOver) Stop() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.armed = false
	if v.track != nil {
		v.track.Stop()
		v.track = nil
	}
}
