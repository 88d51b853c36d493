package playback

import (
	"time"

	"github.com/lixenwraith/petalfall/engine"
)

// Fader ramps a value from start to target in equal steps on the scheduler
// The ramp is monotonic and always lands exactly on the target
type Fader struct {
	sched engine.Scheduler
	steps int
	timer engine.Timer
}

// NewFader creates a fader that splits each ramp into steps updates
func NewFader(sched engine.Scheduler, steps int) *Fader {
	return &Fader{sched: sched, steps: max(steps, 1)}
}

// Start cancels any running ramp and begins a new one
// apply receives every intermediate value, done (optional) fires after the final one
func (f *Fader) Start(from, to float64, d time.Duration, apply func(float64), done func()) {
	f.Stop()

	if d <= 0 || from == to {
		apply(to)
		if done != nil {
			done()
		}
		return
	}

	interval := d / time.Duration(f.steps)
	if interval <= 0 {
		interval = time.Nanosecond
	}

	step := 0
	var timer engine.Timer
	timer = f.sched.Every(interval, func() {
		step++
		v := from + (to-from)*float64(step)/float64(f.steps)
		if step >= f.steps {
			v = to
			timer.Stop()
			if f.timer == timer {
				f.timer = nil
			}
		}
		apply(v)
		if step >= f.steps && done != nil {
			done()
		}
	})
	f.timer = timer
}

// Stop abandons the running ramp at its current value
func (f *Fader) Stop() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// Active reports whether a ramp is in progress
func (f *Fader) Active() bool {
	return f.timer != nil
}
