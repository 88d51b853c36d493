package renderers

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/playback"
	"github.com/lixenwraith/petalfall/render"
	"github.com/lixenwraith/petalfall/status"
)

// NowPlaying is the subset of the playback controller the status bar reads
type NowPlaying interface {
	Items() []playback.Item
	ActiveItem() (int, bool)
	Pending() bool
}

// StatusBarRenderer draws the bottom row: audio state, now playing, petal count and ping
type StatusBarRenderer struct {
	playing NowPlaying
	muted   func() bool

	// Cached metric pointers (zero-lock reads)
	statOnline *atomic.Bool
	statMillis *atomic.Int64
	statPetals *atomic.Int64
	statProbed *atomic.Int64
}

// NewStatusBarRenderer creates a status bar renderer, muted may be nil
func NewStatusBarRenderer(playing NowPlaying, muted func() bool, reg *status.Registry) *StatusBarRenderer {
	if muted == nil {
		muted = func() bool { return false }
	}
	return &StatusBarRenderer{
		playing:    playing,
		muted:      muted,
		statOnline: reg.Flag(status.PingOnline),
		statMillis: reg.Int(status.PingMillis),
		statPetals: reg.Int(status.PetalsLive),
		statProbed: reg.Int(status.PingCount),
	}
}

// Render implements SystemRenderer
func (r *StatusBarRenderer) Render(ctx render.Context, buf *render.Buffer) {
	y := ctx.Height - constants.StatusBarHeight
	if y < 0 {
		return
	}
	buf.Fill(0, y, ctx.Width, constants.StatusBarHeight, render.RgbStatusBg)

	x := 0
	if r.muted() {
		x = buf.Text(x, y, constants.MutedStr, render.RgbStatusBg, render.RgbPingSlow, ctx.Width)
	} else {
		x = buf.Text(x, y, constants.AudioStr, render.RgbStatusBg, render.RgbTitle, ctx.Width)
	}
	x++

	if i, ok := r.playing.ActiveItem(); ok {
		x = buf.Text(x, y, r.playing.Items()[i].Title, render.RgbPanelActive, render.RgbStatusBg, ctx.Width-x)
	} else if r.playing.Pending() {
		x = buf.Text(x, y, "…", render.RgbTextDim, render.RgbStatusBg, ctx.Width-x)
	}

	ping, color := r.pingText()
	petals := fmt.Sprintf("✿ %d", r.statPetals.Load())

	right := ctx.Width - len([]rune(ping)) - 1
	if right > x {
		buf.Text(right, y, ping, color, render.RgbStatusBg, ctx.Width-right)
	}
	if left := right - len([]rune(petals)) - 2; left > x {
		buf.Text(left, y, petals, render.RgbTextDim, render.RgbStatusBg, ctx.Width-left)
	}
}

func (r *StatusBarRenderer) pingText() (string, render.RGB) {
	if r.statProbed.Load() == 0 {
		return constants.PingPendingStr, render.RgbTextDim
	}
	if !r.statOnline.Load() {
		return constants.PingOfflineStr, render.RgbPingSlow
	}
	ms := r.statMillis.Load()
	return fmt.Sprintf("%dms", ms), PingColor(time.Duration(ms) * time.Millisecond)
}

// PingColor grades latency: fast, medium or slow
func PingColor(latency time.Duration) render.RGB {
	switch {
	case latency < constants.PingFastThreshold:
		return render.RgbPingFast
	case latency < constants.PingSlowThreshold:
		return render.RgbPingMedium
	default:
		return render.RgbPingSlow
	}
}
