package renderers

import (
	"math"
	"time"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/render"
)

// Ripple is one click ring
type Ripple struct {
	X, Y int
	Born time.Time
}

// RippleSource lists live ripples
type RippleSource interface {
	EachRipple(fn func(Ripple))
}

// RippleRenderer draws expanding rings at click positions
type RippleRenderer struct {
	source RippleSource
}

func NewRippleRenderer(source RippleSource) *RippleRenderer {
	return &RippleRenderer{source: source}
}

// Render implements SystemRenderer
func (r *RippleRenderer) Render(ctx render.Context, buf *render.Buffer) {
	r.source.EachRipple(func(rp Ripple) {
		progress := float64(ctx.Now.Sub(rp.Born)) / float64(constants.RippleDuration)
		if progress < 0 || progress >= 1 {
			return
		}
		radius := progress * constants.RippleMaxRadius
		alpha := 1 - progress

		// Terminal cells are about twice as tall as wide
		steps := 8 + int(radius*8)
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(steps)
			x := rp.X + int(math.Round(math.Cos(a)*radius*2))
			y := rp.Y + int(math.Round(math.Sin(a)*radius))
			buf.SetFg(x, y, '·', render.RgbRipple, alpha)
		}
		if radius < 0.5 {
			buf.SetFg(rp.X, rp.Y, '○', render.RgbRipple, alpha)
		}
	})
}

// RedirectView reports an intercepted gesture awaiting acknowledgement
type RedirectView interface {
	Redirect() (target, reason string, ok bool)
}

// RedirectRenderer covers the page with the redirect notice
type RedirectRenderer struct {
	view RedirectView
}

func NewRedirectRenderer(view RedirectView) *RedirectRenderer {
	return &RedirectRenderer{view: view}
}

// IsVisible implements VisibilityToggle
func (r *RedirectRenderer) IsVisible() bool {
	_, _, ok := r.view.Redirect()
	return ok
}

// Render implements SystemRenderer
func (r *RedirectRenderer) Render(ctx render.Context, buf *render.Buffer) {
	target, reason, ok := r.view.Redirect()
	if !ok {
		return
	}
	buf.Fill(0, 0, ctx.Width, ctx.Height, render.RgbRedirect)

	lines := []string{
		constants.RedirectTitle,
		"",
		"→ " + target,
		"",
		"(" + reason + ")  press any key",
	}
	y := (ctx.Height - len(lines)) / 2
	for i, line := range lines {
		w := len([]rune(line))
		buf.Text(max((ctx.Width-w)/2, 0), y+i, line, render.RgbText, render.RgbRedirect, ctx.Width)
	}
}
