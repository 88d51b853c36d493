package audio

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/petalfall/engine"
)

// fakeOutput collects streamers instead of sending them to a device
type fakeOutput struct {
	streamers []beep.Streamer
	locks     int
}

func (o *fakeOutput) Lock()               { o.locks++ }
func (o *fakeOutput) Unlock()             {}
func (o *fakeOutput) Add(s beep.Streamer) { o.streamers = append(o.streamers, s) }
func (o *fakeOutput) Clear()              { o.streamers = nil }

// drain pulls s until it reports exhaustion, returns the sample count
func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 100000; i++ {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	return total
}

func newTestEngine(allowAutoplay bool, attached bool) (*Engine, *fakeOutput, *engine.ManualScheduler) {
	sched := engine.NewManualScheduler(time.Now())
	e := NewEngine(DefaultConfig(), NewGate(allowAutoplay), sched, nil)
	out := &fakeOutput{}
	if attached {
		e.attach(out, newVolume(&beep.Mixer{}, 1))
	}
	return e, out, sched
}

// await flushes the scheduler until result is delivered by the decode goroutine
func await(t *testing.T, sched *engine.ManualScheduler, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for playback result")
		}
		sched.Flush()
		time.Sleep(time.Millisecond)
	}
}

// TestPlayBlockedUntilGesture verifies autoplay policy rejection and recovery
func TestPlayBlockedUntilGesture(t *testing.T) {
	e, _, sched := newTestEngine(false, true)

	tr, err := e.Load("tone:440:50ms")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var got error
	called := false
	tr.Play(func(err error) { got, called = err, true })
	if called {
		t.Fatal("Result must not be delivered synchronously")
	}
	sched.Flush()
	if !errors.Is(got, ErrPlaybackBlocked) {
		t.Fatalf("Expected ErrPlaybackBlocked, got %v", got)
	}

	e.gate.NoteGesture()
	tr2, _ := e.Load("tone:440:50ms")
	called = false
	tr2.Play(func(err error) { got, called = err, true })
	await(t, sched, func() bool { return called })
	if got != nil {
		t.Fatalf("Expected success after gesture, got %v", got)
	}
	if !tr2.IsPlaying() {
		t.Error("Expected track to be playing")
	}
}

// TestPlayWithoutDevice verifies silent engines fail softly
func TestPlayWithoutDevice(t *testing.T) {
	e, _, sched := newTestEngine(true, false)
	tr, _ := e.Load("tone:440:50ms")

	var got error
	tr.Play(func(err error) { got = err })
	sched.Flush()
	if !errors.Is(got, ErrNoAudioDevice) {
		t.Errorf("Expected ErrNoAudioDevice, got %v", got)
	}
}

// TestNaturalEndFiresOnce verifies the end callback after the stream drains
func TestNaturalEndFiresOnce(t *testing.T) {
	e, out, sched := newTestEngine(true, true)
	tr, _ := e.Load("tone:220:20ms")

	ended := 0
	tr.OnEnded(func() { ended++ })

	started := false
	tr.Play(func(err error) {
		if err != nil {
			t.Errorf("Unexpected play error: %v", err)
		}
		started = true
	})
	await(t, sched, func() bool { return started })

	if len(out.streamers) != 1 {
		t.Fatalf("Expected one streamer in output, got %d", len(out.streamers))
	}
	drain(out.streamers[0])
	sched.Flush()

	if ended != 1 {
		t.Fatalf("Expected one natural end, got %d", ended)
	}
	if tr.IsPlaying() {
		t.Error("Track still playing after natural end")
	}
}

// TestStopSuppressesEnd verifies Stop drains the control without the end callback
func TestStopSuppressesEnd(t *testing.T) {
	e, out, sched := newTestEngine(true, true)
	tr, _ := e.Load("tone:220:20ms")

	ended := false
	tr.OnEnded(func() { ended = true })
	started := false
	tr.Play(func(error) { started = true })
	await(t, sched, func() bool { return started })

	tr.Stop()
	if n := drain(out.streamers[0]); n != 0 {
		t.Errorf("Expected stopped control to yield no samples, got %d", n)
	}
	sched.Flush()
	if ended {
		t.Error("Natural end fired after Stop")
	}
}

// TestStopWhileStarting verifies a stop racing the decode resolves with ErrTrackStopped
func TestStopWhileStarting(t *testing.T) {
	e, out, sched := newTestEngine(true, true)
	tr, _ := e.Load("tone:220:20ms")

	var got error
	called := false
	tr.Play(func(err error) { got, called = err, true })
	tr.Stop()
	await(t, sched, func() bool { return called })

	if !errors.Is(got, ErrTrackStopped) {
		t.Errorf("Expected ErrTrackStopped, got %v", got)
	}
	if len(out.streamers) != 0 {
		t.Error("Stopped track must not reach the output")
	}
}

// TestCloseErrorsLogged verifies every path that discards a decoded stream reports close failures
func TestCloseErrorsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	errClose := errors.New("close failed")
	stream := generators.Silence(10)

	tests := []struct {
		name    string
		setup   func(*Track)
		attach  bool
		wantErr error
	}{
		{"stopped while decoding", func(tr *Track) { tr.state = trackStopped }, true, ErrTrackStopped},
		{"device gone", func(tr *Track) { tr.state = trackStarting }, false, ErrNoAudioDevice},
		{"stopped while playing", func(tr *Track) { tr.state = trackStarting }, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			e, _, _ := newTestEngine(true, tt.attach)
			tr, _ := e.Load("tone:220:20ms")
			tt.setup(tr)

			closes := 0
			var got error
			tr.begin(stream, func() error { closes++; return errClose }, func(err error) { got = err })
			if !errors.Is(got, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, got)
			}
			if tt.wantErr == nil {
				tr.Stop()
			}

			if closes != 1 {
				t.Errorf("Expected one close, got %d", closes)
			}
			if !strings.Contains(buf.String(), "audio: close tone:220:20ms: close failed") {
				t.Errorf("Close failure not logged: %q", buf.String())
			}
		})
	}
}

// TestTrackReuse verifies a track plays at most once
func TestTrackReuse(t *testing.T) {
	e, _, sched := newTestEngine(true, true)
	tr, _ := e.Load("tone:220:20ms")

	tr.Play(func(error) {})
	var got error
	tr.Play(func(err error) { got = err })
	sched.Flush()
	if !errors.Is(got, ErrTrackReused) {
		t.Errorf("Expected ErrTrackReused, got %v", got)
	}
}

// TestVolumeClamped verifies track gain stays within range
func TestVolumeClamped(t *testing.T) {
	e, _, _ := newTestEngine(true, true)
	tr, _ := e.Load("tone:220:20ms")

	tr.SetVolume(2)
	if tr.Volume() != 1 {
		t.Errorf("Expected clamp to 1, got %f", tr.Volume())
	}
	tr.SetVolume(-1)
	if tr.Volume() != 0 {
		t.Errorf("Expected clamp to 0, got %f", tr.Volume())
	}
}

// TestToggleMute verifies master mute flips and reaches the master volume
func TestToggleMute(t *testing.T) {
	e, _, _ := newTestEngine(true, true)
	if !e.ToggleMute() || !e.IsMuted() || !e.master.Silent {
		t.Error("Expected muted after first toggle")
	}
	if e.ToggleMute() || e.master.Silent {
		t.Error("Expected unmuted after second toggle")
	}
}

// TestWavDecodeResampled verifies a wav file at a foreign rate decodes and resamples
func TestWavDecodeResampled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	srcRate := beep.SampleRate(22050)
	sine, _ := generators.SineTone(srcRate, 330)
	format := beep.Format{SampleRate: srcRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(srcRate.N(100*time.Millisecond), sine), format); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	f.Close()

	src, err := ParseSource(path)
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	stream, closer, err := src.open(beep.SampleRate(44100))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer closer()

	n := drain(stream)
	if n < 4000 || n > 4800 {
		t.Errorf("Expected ~4410 resampled samples, got %d", n)
	}
}

// TestMissingFile verifies decode errors surface through open
func TestMissingFile(t *testing.T) {
	src, _ := ParseSource(filepath.Join(t.TempDir(), "absent.mp3"))
	if _, _, err := src.open(beep.SampleRate(44100)); err == nil {
		t.Error("Expected error for missing file")
	}
}
