package page

import (
	"time"

	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/loading"
)

type stage int

const (
	stageLoading stage = iota
	stageFading
	stageRevealed
)

// reveal fades the loader out once progress completes
type reveal struct {
	sched    engine.Scheduler
	sim      *loading.Simulator
	duration time.Duration

	stage stage
	start time.Time
}

func newReveal(sched engine.Scheduler, sim *loading.Simulator, d time.Duration) *reveal {
	return &reveal{sched: sched, sim: sim, duration: d}
}

func (r *reveal) begin() {
	if r.stage != stageLoading {
		return
	}
	r.stage = stageFading
	r.start = r.sched.Now()
	r.sched.AfterFunc(r.duration, func() { r.stage = stageRevealed })
}

// Percent implements renderers.LoadingView
func (r *reveal) Percent() int {
	return r.sim.Percent()
}

// LoaderOpacity implements renderers.LoadingView
func (r *reveal) LoaderOpacity(now time.Time) float64 {
	switch r.stage {
	case stageLoading:
		return 1
	case stageFading:
		if r.duration <= 0 {
			return 0
		}
		return min(max(1-float64(now.Sub(r.start))/float64(r.duration), 0), 1)
	default:
		return 0
	}
}

// ContentOpacity implements renderers.ContentView
func (r *reveal) ContentOpacity(now time.Time) float64 {
	return 1 - r.LoaderOpacity(now)
}
