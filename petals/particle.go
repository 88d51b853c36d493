// Package petals implements the falling-petal particle effect
package petals

import (
	"time"

	"github.com/lixenwraith/petalfall/constants"
)

// Particle is one falling petal, immutable after creation
type Particle struct {
	ID         uint64
	Size       int     // cells
	StartX     float64 // column at spawn
	EndX       float64 // column at expiry
	FallHeight float64 // rows travelled over the lifetime
	Duration   time.Duration
	Opacity    float64 // peak opacity 0.0-1.0
	Rotation   float64 // total rotation in degrees over the lifetime
	Scale      float64
	Glyph      rune
	Born       time.Time
}

// Pose is the interpolated render state of a particle at a point in time
type Pose struct {
	X, Y     float64
	Rotation float64
	Opacity  float64
	Progress float64 // 0.0 at birth, 1.0 at expiry
}

// At interpolates the particle's position and fade at now
func (p Particle) At(now time.Time) Pose {
	progress := 0.0
	if p.Duration > 0 {
		progress = float64(now.Sub(p.Born)) / float64(p.Duration)
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}

	opacity := p.Opacity
	if tail := 1 - constants.PetalFadeTail; progress > tail {
		opacity *= (1 - progress) / constants.PetalFadeTail
	}

	return Pose{
		X:        p.StartX + (p.EndX-p.StartX)*progress,
		Y:        -float64(p.Size) + p.FallHeight*progress,
		Rotation: p.Rotation * progress,
		Opacity:  opacity,
		Progress: progress,
	}
}

// glyphFor maps visual weight (size times scale) onto PetalGlyphs
func glyphFor(size int, scale float64) rune {
	maxWeight := float64(constants.PetalSizeMax-1) * constants.PetalScaleMax
	weight := float64(size) * scale
	idx := int(weight / maxWeight * float64(len(constants.PetalGlyphs)))
	if idx >= len(constants.PetalGlyphs) {
		idx = len(constants.PetalGlyphs) - 1
	} else if idx < 0 {
		idx = 0
	}
	return constants.PetalGlyphs[idx]
}
