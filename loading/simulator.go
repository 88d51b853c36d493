// Package loading drives the loading-screen progress bar
package loading

import (
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/status"
)

// Config tunes the simulator timing
type Config struct {
	TickInterval  time.Duration
	CompleteDelay time.Duration
}

// DefaultConfig returns the standard loading timing
func DefaultConfig() Config {
	return Config{
		TickInterval:  constants.ProgressTickInterval,
		CompleteDelay: constants.ProgressCompleteDelay,
	}
}

// Simulator produces a fast-start, slow-finish progress value in [0,100]
// All methods must be called from the scheduler's goroutine
type Simulator struct {
	sched engine.Scheduler
	rng   *rand.Rand
	cfg   Config

	value float64
	ticks int
	timer engine.Timer

	started   bool
	reached   bool // value hit 100, completion pending or fired
	completed bool

	onProgress []func(percent int)
	onComplete []func()

	statPercent *atomic.Int64
	statTicks   *atomic.Int64
}

// NewSimulator creates an idle simulator, reg may be nil
func NewSimulator(sched engine.Scheduler, rng *rand.Rand, cfg Config, reg *status.Registry) *Simulator {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Simulator{
		sched:       sched,
		rng:         rng,
		cfg:         cfg,
		statPercent: reg.Int(status.ProgressPercent),
		statTicks:   reg.Int(status.ProgressTicks),
	}
}

// OnProgress registers a listener for the displayed percentage, must be called before Start
func (s *Simulator) OnProgress(fn func(percent int)) {
	s.onProgress = append(s.onProgress, fn)
}

// OnComplete registers a listener for the completion signal, must be called before Start
func (s *Simulator) OnComplete(fn func()) {
	s.onComplete = append(s.onComplete, fn)
}

// Start begins ticking, subsequent calls are no-ops
func (s *Simulator) Start() {
	if s.started {
		return
	}
	s.started = true
	s.timer = s.sched.Every(s.cfg.TickInterval, s.tick)
}

func (s *Simulator) tick() {
	if s.reached {
		return
	}

	s.ticks++
	s.statTicks.Store(int64(s.ticks))

	s.value += s.rng.Float64() * MaxIncrement(s.value)
	if s.value >= constants.ProgressMax {
		s.value = constants.ProgressMax
	}

	percent := s.Percent()
	s.statPercent.Store(int64(percent))
	for _, fn := range s.onProgress {
		fn(percent)
	}

	if s.value == constants.ProgressMax {
		s.reached = true
		s.timer.Stop()
		s.sched.AfterFunc(s.cfg.CompleteDelay, s.complete)
	}
}

func (s *Simulator) complete() {
	if s.completed {
		return
	}
	s.completed = true
	for _, fn := range s.onComplete {
		fn()
	}
}

// MaxIncrement returns the upper bound of the random step for the given value
func MaxIncrement(value float64) float64 {
	switch {
	case value < constants.ProgressFastCeiling:
		return constants.ProgressFastStep
	case value < constants.ProgressSlowCeiling:
		return constants.ProgressMidStep
	default:
		return constants.ProgressSlowStep
	}
}

// Value returns the raw progress value
func (s *Simulator) Value() float64 {
	return s.value
}

// Percent returns the displayed percentage, floor of the value
func (s *Simulator) Percent() int {
	return int(math.Floor(s.value))
}

// Ticks returns the number of ticks processed
func (s *Simulator) Ticks() int {
	return s.ticks
}

// Done reports whether the completion signal has fired
func (s *Simulator) Done() bool {
	return s.completed
}
