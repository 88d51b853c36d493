package renderers

import (
	"fmt"
	"time"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/render"
)

// LoadingView exposes the loader state to the renderer
type LoadingView interface {
	Percent() int
	// LoaderOpacity is 1 while loading, falls to 0 during the reveal
	LoaderOpacity(now time.Time) float64
}

// LoadingRenderer draws the progress bar and percentage over an opaque backdrop
type LoadingRenderer struct {
	view LoadingView
}

func NewLoadingRenderer(view LoadingView) *LoadingRenderer {
	return &LoadingRenderer{view: view}
}

// Render implements SystemRenderer
func (r *LoadingRenderer) Render(ctx render.Context, buf *render.Buffer) {
	alpha := r.view.LoaderOpacity(ctx.Now)
	if alpha <= 0 {
		return
	}

	// Backdrop hides the page until the reveal completes
	for y := 0; y < ctx.Height; y++ {
		for x := 0; x < ctx.Width; x++ {
			buf.Set(x, y, 0, render.RgbBackground, render.RgbBackground, render.BlendAlpha, alpha)
		}
	}

	barWidth := min(constants.LoadingBarWidth, ctx.Width-4)
	if barWidth <= 0 {
		return
	}
	percent := min(max(r.view.Percent(), 0), int(constants.ProgressMax))
	filled := barWidth * percent / int(constants.ProgressMax)

	x0 := (ctx.Width - barWidth) / 2
	y0 := ctx.Height / 2

	label := constants.LoadingLabel
	buf.Text((ctx.Width-len(label))/2, y0-2, label, fade(render.RgbTitle, alpha), render.RgbBackground, ctx.Width)

	for i := 0; i < barWidth; i++ {
		color := render.RgbBarEmpty
		if i < filled {
			color = render.RgbBarFill
		}
		buf.SetWithBg(x0+i, y0, ' ', color, fade(color, alpha))
	}

	text := fmt.Sprintf("%d%%", percent)
	buf.Text((ctx.Width-len(text))/2, y0+2, text, fade(render.RgbText, alpha), render.RgbBackground, ctx.Width)
}

// fade blends c toward the page background
func fade(c render.RGB, alpha float64) render.RGB {
	return render.RgbBackground.Blend(c, alpha)
}
