package petals

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/status"
)

// Layer receives created particles and their scheduled removals
type Layer interface {
	Add(p Particle)
	Remove(id uint64) bool
	Len() int
}

// Bounds reports the current field size in cells
type Bounds func() (width, height int)

// Config tunes emission
type Config struct {
	EmitInterval time.Duration
	BurstCount   int
	BurstStagger time.Duration

	// MaxLive caps concurrently live particles, 0 leaves emission uncapped
	MaxLive int
}

// DefaultConfig returns the standard emission settings, uncapped
func DefaultConfig() Config {
	return Config{
		EmitInterval: constants.PetalEmitInterval,
		BurstCount:   constants.PetalBurstCount,
		BurstStagger: constants.PetalBurstStagger,
	}
}

// Spawner emits particles on a timer and schedules each one's removal at creation
// All methods must be called from the scheduler's goroutine
type Spawner struct {
	sched  engine.Scheduler
	rng    *rand.Rand
	layer  Layer
	bounds Bounds
	cfg    Config

	nextID  uint64
	started bool
	timer   engine.Timer

	statLive    *atomic.Int64
	statCreated *atomic.Int64
	statRemoved *atomic.Int64
	statSkipped *atomic.Int64
}

// NewSpawner creates an idle spawner, reg may be nil
func NewSpawner(sched engine.Scheduler, rng *rand.Rand, layer Layer, bounds Bounds, cfg Config, reg *status.Registry) *Spawner {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Spawner{
		sched:       sched,
		rng:         rng,
		layer:       layer,
		bounds:      bounds,
		cfg:         cfg,
		statLive:    reg.Int(status.PetalsLive),
		statCreated: reg.Int(status.PetalsCreated),
		statRemoved: reg.Int(status.PetalsRemoved),
		statSkipped: reg.Int(status.PetalsSkipped),
	}
}

// Start schedules the initial burst and the repeating emission
// The emission timer is never cancelled, it lives as long as the page
func (s *Spawner) Start() {
	if s.started {
		return
	}
	s.started = true

	for i := 0; i < s.cfg.BurstCount; i++ {
		s.sched.AfterFunc(time.Duration(i)*s.cfg.BurstStagger, s.emit)
	}
	s.timer = s.sched.Every(s.cfg.EmitInterval, s.emit)
}

func (s *Spawner) emit() {
	if s.cfg.MaxLive > 0 && s.layer.Len() >= s.cfg.MaxLive {
		s.statSkipped.Add(1)
		return
	}
	s.Create()
}

// Create synthesizes one particle, adds it to the layer and schedules its removal
func (s *Spawner) Create() Particle {
	width, height := 1, 1
	if s.bounds != nil {
		width, height = s.bounds()
	}
	width = max(width, 1)
	height = max(height, 1)

	s.nextID++
	size := constants.PetalSizeMin + s.rng.IntN(constants.PetalSizeMax-constants.PetalSizeMin)
	scale := uniform(s.rng, constants.PetalScaleMin, constants.PetalScaleMax)
	startX := s.rng.Float64() * float64(width)
	drift := float64(width) * constants.PetalDriftRatio

	p := Particle{
		ID:         s.nextID,
		Size:       size,
		StartX:     startX,
		EndX:       startX + uniform(s.rng, -drift, drift),
		FallHeight: float64(height + size),
		Duration:   durationBetween(s.rng, constants.PetalDurationMin, constants.PetalDurationMax),
		Opacity:    uniform(s.rng, constants.PetalOpacityMin, constants.PetalOpacityMax),
		Rotation:   uniform(s.rng, -constants.PetalRotationMax, constants.PetalRotationMax),
		Scale:      scale,
		Glyph:      glyphFor(size, scale),
		Born:       s.sched.Now(),
	}

	s.layer.Add(p)
	s.statCreated.Add(1)
	s.statLive.Store(int64(s.layer.Len()))

	id := p.ID
	s.sched.AfterFunc(p.Duration, func() {
		if s.layer.Remove(id) {
			s.statRemoved.Add(1)
		}
		s.statLive.Store(int64(s.layer.Len()))
	})
	return p
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func durationBetween(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	return lo + time.Duration(rng.Int64N(int64(hi-lo)))
}
