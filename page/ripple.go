package page

import (
	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/render/renderers"
)

// ripples holds click rings, each removed by its own timer
type ripples struct {
	sched  engine.Scheduler
	nextID uint64
	live   map[uint64]renderers.Ripple
	order  []uint64
}

func newRipples(sched engine.Scheduler) *ripples {
	return &ripples{sched: sched, live: make(map[uint64]renderers.Ripple)}
}

func (r *ripples) add(x, y int) {
	r.nextID++
	id := r.nextID
	r.live[id] = renderers.Ripple{X: x, Y: y, Born: r.sched.Now()}
	r.order = append(r.order, id)

	r.sched.AfterFunc(constants.RippleDuration, func() {
		delete(r.live, id)
		for i, v := range r.order {
			if v == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	})
}

func (r *ripples) len() int {
	return len(r.live)
}

// EachRipple implements renderers.RippleSource
func (r *ripples) EachRipple(fn func(renderers.Ripple)) {
	for _, id := range r.order {
		fn(r.live[id])
	}
}
