package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/engine"
)

// output is where playing streamers are mixed
// Lock/Unlock guard every mutation of a streamer that is already playing
type output interface {
	Lock()
	Unlock()
	Add(s beep.Streamer)
	Clear()
}

// speakerOutput mixes into the beep speaker
type speakerOutput struct {
	mixer *beep.Mixer
}

func (o *speakerOutput) Lock()               { speaker.Lock() }
func (o *speakerOutput) Unlock()             { speaker.Unlock() }
func (o *speakerOutput) Add(s beep.Streamer) { o.mixer.Add(s) }
func (o *speakerOutput) Clear()              { o.mixer.Clear() }

// Config tunes the audio engine
type Config struct {
	SampleRate     int
	BufferDuration time.Duration
}

// DefaultConfig returns the standard speaker settings
func DefaultConfig() Config {
	return Config{
		SampleRate:     constants.AudioSampleRate,
		BufferDuration: constants.AudioBufferDuration,
	}
}

// Engine loads and plays tracks through the speaker
// Decoding runs on helper goroutines; every result and end notification is posted to the scheduler
type Engine struct {
	rate  beep.SampleRate
	cfg   Config
	gate  *Gate
	sched engine.Scheduler
	fault *engine.FaultHandler

	mu      sync.Mutex
	out     output
	master  *effects.Volume
	running atomic.Bool
	muted   atomic.Bool
}

// NewEngine creates an engine that is silent until Start succeeds
func NewEngine(cfg Config, gate *Gate, sched engine.Scheduler, fault *engine.FaultHandler) *Engine {
	if fault == nil {
		fault = engine.NewFaultHandler(nil)
	}
	return &Engine{
		rate:  beep.SampleRate(cfg.SampleRate),
		cfg:   cfg,
		gate:  gate,
		sched: sched,
		fault: fault,
	}
}

// Start initializes the speaker; on error the engine stays silent and tracks fail with ErrNoAudioDevice
func (e *Engine) Start() error {
	if e.running.Load() {
		return nil
	}

	if err := speaker.Init(e.rate, e.rate.N(e.cfg.BufferDuration)); err != nil {
		return fmt.Errorf("%w: %v", ErrNoAudioDevice, err)
	}

	mixer := &beep.Mixer{}
	master := newVolume(mixer, 1)
	master.Silent = e.muted.Load()
	speaker.Play(master)

	e.attach(&speakerOutput{mixer: mixer}, master)
	return nil
}

// attach installs the output the engine mixes into
func (e *Engine) attach(out output, master *effects.Volume) {
	e.mu.Lock()
	e.out = out
	e.master = master
	e.mu.Unlock()
	e.running.Store(true)
}

// Stop silences every track, safe to call when not started
func (e *Engine) Stop() error {
	if !e.running.CompareAndSwap(true, false) {
		return nil
	}
	out := e.output()
	out.Lock()
	out.Clear()
	out.Unlock()
	return nil
}

// Name implements service.Service
func (e *Engine) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (e *Engine) Dependencies() []string {
	return nil
}

// Optional implements service.Optional; the page runs silent without a device
func (e *Engine) Optional() bool {
	return true
}

func (e *Engine) output() output {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.out
}

// IsRunning reports whether the speaker is available
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// ToggleMute flips master mute, returns true if now muted
func (e *Engine) ToggleMute() bool {
	muted := !e.muted.Load()
	e.muted.Store(muted)

	e.mu.Lock()
	out, master := e.out, e.master
	e.mu.Unlock()

	if out != nil && master != nil {
		out.Lock()
		master.Silent = muted
		out.Unlock()
	}
	return muted
}

// IsMuted returns current mute state
func (e *Engine) IsMuted() bool {
	return e.muted.Load()
}

// Load creates a track for ref without starting it
func (e *Engine) Load(ref string) (*Track, error) {
	src, err := ParseSource(ref)
	if err != nil {
		return nil, err
	}
	return &Track{eng: e, src: src, volume: 1}, nil
}
