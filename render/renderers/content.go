package renderers

import (
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/render"
)

// ContentView exposes the reveal state of the page body
type ContentView interface {
	ContentOpacity(now time.Time) float64
}

// ContentRenderer draws the page title block centered above the status bar
type ContentRenderer struct {
	view  ContentView
	lines []string
}

func NewContentRenderer(view ContentView) *ContentRenderer {
	return &ContentRenderer{
		view:  view,
		lines: []string{constants.PageTitle, "", constants.PageSubtitle, "", constants.HelpStr},
	}
}

// Render implements SystemRenderer
func (r *ContentRenderer) Render(ctx render.Context, buf *render.Buffer) {
	alpha := r.view.ContentOpacity(ctx.Now)
	if alpha <= 0 {
		return
	}

	height := ctx.ContentHeight(constants.StatusBarHeight)
	y := (height - len(r.lines)) / 2
	for i, line := range r.lines {
		if line == "" {
			continue
		}
		color := render.RgbTextDim
		if i == 0 {
			color = render.RgbTitle
		}
		w := runewidth.StringWidth(line)
		x := max((ctx.Width-w)/2, 0)
		for _, ch := range line {
			cw := runewidth.RuneWidth(ch)
			if cw == 0 {
				continue
			}
			if ch != ' ' {
				buf.SetFg(x, y+i, ch, color, alpha)
			}
			x += cw
		}
	}
}
