package audio

import (
	"log"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type trackState int

const (
	trackIdle trackState = iota
	trackStarting
	trackPlaying
	trackEnded
	trackStopped
)

// Track is one playable source, usable for a single playback
// Methods must be called from the engine scheduler's goroutine
type Track struct {
	eng *Engine
	src Source

	state   trackState
	volume  float64
	ctrl    *beep.Ctrl
	gain    *effects.Volume
	closer  func() error
	onEnded func()
}

// OnEnded registers the natural-end callback, it never fires after Stop
func (t *Track) OnEnded(fn func()) {
	t.onEnded = fn
}

// Play attempts to start playback asynchronously
// result is always invoked exactly once, on the scheduler, after Play returns
func (t *Track) Play(result func(error)) {
	e := t.eng
	fail := func(err error) { e.sched.Post(func() { result(err) }) }

	switch {
	case t.state != trackIdle:
		fail(ErrTrackReused)
		return
	case !e.gate.Allowed():
		fail(ErrPlaybackBlocked)
		return
	case !e.running.Load():
		fail(ErrNoAudioDevice)
		return
	}

	t.state = trackStarting
	e.fault.Go(func() {
		stream, closer, err := t.src.open(e.rate)
		e.sched.Post(func() {
			if err != nil {
				t.state = trackEnded
				result(err)
				return
			}
			t.begin(stream, closer, result)
		})
	})
}

// begin runs on the scheduler once decoding succeeded
func (t *Track) begin(stream beep.Streamer, closer func() error, result func(error)) {
	e := t.eng
	if t.state == trackStopped {
		t.closeStream(closer)
		result(ErrTrackStopped)
		return
	}

	out := e.output()
	if out == nil || !e.running.Load() {
		t.closeStream(closer)
		t.state = trackEnded
		result(ErrNoAudioDevice)
		return
	}

	t.closer = closer
	t.gain = newVolume(stream, t.volume)
	t.ctrl = &beep.Ctrl{Streamer: beep.Seq(t.gain, beep.Callback(func() {
		e.sched.Post(t.finish)
	}))}

	out.Lock()
	out.Add(t.ctrl)
	out.Unlock()

	t.state = trackPlaying
	result(nil)
}

// finish handles the natural end of the stream
func (t *Track) finish() {
	if t.state != trackPlaying {
		return
	}
	t.state = trackEnded
	t.release()
	if t.onEnded != nil {
		t.onEnded()
	}
}

// Stop halts playback; a pending start resolves with ErrTrackStopped
func (t *Track) Stop() {
	switch t.state {
	case trackStarting, trackIdle:
		t.state = trackStopped
		return
	case trackPlaying:
		t.state = trackStopped
	default:
		return
	}

	if out := t.eng.output(); out != nil && t.ctrl != nil {
		out.Lock()
		// A nil streamer drains the Ctrl so the mixer drops it without reaching the end callback
		t.ctrl.Streamer = nil
		t.ctrl.Paused = true
		out.Unlock()
	}
	t.release()
}

func (t *Track) release() {
	if t.closer == nil {
		return
	}
	t.closeStream(t.closer)
	t.closer = nil
}

// closeStream closes a decoded source, failures are logged and otherwise ignored
func (t *Track) closeStream(closer func() error) {
	if err := closer(); err != nil {
		log.Printf("audio: close %s: %v", t.src.Ref, err)
	}
}

// SetVolume sets the linear track gain, 0.0-1.0
func (t *Track) SetVolume(v float64) {
	v = min(max(v, 0), 1)
	t.volume = v
	if t.gain == nil {
		return
	}
	if out := t.eng.output(); out != nil {
		out.Lock()
		setGain(t.gain, v)
		out.Unlock()
	}
}

// Volume returns the linear track gain
func (t *Track) Volume() float64 {
	return t.volume
}

// IsPlaying reports whether the track is audible
func (t *Track) IsPlaying() bool {
	return t.state == trackPlaying
}
