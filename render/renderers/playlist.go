package renderers

import (
	"fmt"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/playback"
	"github.com/lixenwraith/petalfall/render"
)

// PlaylistView is the subset of the playback controller the panel reads
type PlaylistView interface {
	Items() []playback.Item
	ActiveItem() (int, bool)
	PanelVisible() bool
}

// PlaylistRenderer draws the playlist panel on the right edge
type PlaylistRenderer struct {
	view   PlaylistView
	cursor func() int
}

// NewPlaylistRenderer creates the panel renderer, cursor returns the highlighted row
func NewPlaylistRenderer(view PlaylistView, cursor func() int) *PlaylistRenderer {
	return &PlaylistRenderer{view: view, cursor: cursor}
}

// IsVisible implements VisibilityToggle
func (r *PlaylistRenderer) IsVisible() bool {
	return r.view.PanelVisible()
}

// PanelBounds returns the panel rectangle for a screen size, used for hit testing
func PanelBounds(width, height, items int) (x, y, w, h int) {
	w = min(constants.PanelWidth, width)
	h = min(items+4, height-constants.StatusBarHeight)
	return width - w, 0, w, max(h, 0)
}

// ItemAt maps a screen cell to a playlist index
func ItemAt(width, height, items, cx, cy int) (int, bool) {
	x, y, w, h := PanelBounds(width, height, items)
	if cx < x || cx >= x+w || cy < y || cy >= y+h {
		return -1, false
	}
	i := cy - y - 2
	if i < 0 || i >= items {
		return -1, false
	}
	return i, true
}

// Render implements SystemRenderer
func (r *PlaylistRenderer) Render(ctx render.Context, buf *render.Buffer) {
	items := r.view.Items()
	x, y, w, h := PanelBounds(ctx.Width, ctx.Height, len(items))
	if w < 8 || h < 3 {
		return
	}
	buf.Fill(x, y, w, h, render.RgbPanelBg)

	for col := x; col < x+w; col++ {
		buf.SetWithBg(col, y+1, '─', render.RgbPanelBorder, render.RgbPanelBg)
	}
	for row := y; row < y+h; row++ {
		buf.SetWithBg(x, row, '│', render.RgbPanelBorder, render.RgbPanelBg)
	}

	buf.Text(x+2, y, constants.PanelTitle, render.RgbTitle, render.RgbPanelBg, w-6)
	buf.SetWithBg(x+w-2, y, '×', render.RgbTextDim, render.RgbPanelBg)

	active, playing := r.view.ActiveItem()
	cursor := r.cursor()
	for i, item := range items {
		row := y + 2 + i
		if row >= y+h {
			break
		}

		bg := render.RgbPanelBg
		if i == cursor {
			bg = render.RgbPanelCursor
			for col := x + 1; col < x+w; col++ {
				buf.SetBg(col, row, bg)
			}
		}

		marker, fg := ' ', render.RgbText
		if playing && i == active {
			marker, fg = '♪', render.RgbPanelActive
		}
		buf.SetWithBg(x+2, row, marker, fg, bg)
		buf.Text(x+4, row, fmt.Sprintf("%d. %s", i+1, item.Title), fg, bg, w-5)
	}
}
