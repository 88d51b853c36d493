package renderers

import (
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/petals"
	"github.com/lixenwraith/petalfall/playback"
	"github.com/lixenwraith/petalfall/render"
	"github.com/lixenwraith/petalfall/status"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// rowText returns the runes of row y as a string
func rowText(buf *render.Buffer, y int) string {
	w, _ := buf.Bounds()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		if r := buf.Get(x, y).Rune; r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func screenText(buf *render.Buffer) string {
	_, h := buf.Bounds()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(buf, y)
	}
	return strings.Join(rows, "\n")
}

type loadingStub struct {
	percent int
	alpha   float64
}

func (l loadingStub) Percent() int                    { return l.percent }
func (l loadingStub) LoaderOpacity(time.Time) float64 { return l.alpha }

// TestLoadingBarFill verifies the filled width and label follow the percentage
func TestLoadingBarFill(t *testing.T) {
	buf := render.NewBuffer(60, 20)
	ctx := render.Context{Now: epoch, Width: 60, Height: 20}
	NewLoadingRenderer(loadingStub{percent: 50, alpha: 1}).Render(ctx, buf)

	y := ctx.Height / 2
	x0 := (ctx.Width - constants.LoadingBarWidth) / 2
	filled := 0
	for i := 0; i < constants.LoadingBarWidth; i++ {
		if buf.Get(x0+i, y).Bg == render.RgbBarFill {
			filled++
		}
	}
	if filled != constants.LoadingBarWidth/2 {
		t.Errorf("Expected %d filled cells, got %d", constants.LoadingBarWidth/2, filled)
	}
	if !strings.Contains(rowText(buf, y+2), "50%") {
		t.Errorf("Expected percentage label, got %q", rowText(buf, y+2))
	}
}

// TestLoadingHiddenAfterReveal verifies nothing is drawn at zero opacity
func TestLoadingHiddenAfterReveal(t *testing.T) {
	buf := render.NewBuffer(60, 20)
	NewLoadingRenderer(loadingStub{percent: 100, alpha: 0}).Render(render.Context{Now: epoch, Width: 60, Height: 20}, buf)
	if strings.Contains(screenText(buf), "100%") {
		t.Error("Loader drawn after reveal")
	}
}

// TestPetalRendererPose verifies particles land on their interpolated cell and expire off-screen
func TestPetalRendererPose(t *testing.T) {
	field := petals.NewField()
	p := petals.Particle{
		ID: 1, Size: 1, StartX: 10, EndX: 20, FallHeight: 21,
		Duration: 10 * time.Second, Opacity: 1, Scale: 1, Glyph: '*', Born: epoch,
	}
	field.Add(p)

	buf := render.NewBuffer(40, 20)
	ctx := render.Context{Now: epoch.Add(5 * time.Second), Width: 40, Height: 20}
	NewPetalRenderer(field).Render(ctx, buf)

	pose := p.At(ctx.Now)
	x, y := int(pose.X+0.5), int(pose.Y+0.5)
	if got := buf.Get(x, y).Rune; got != '*' && got != '✱' {
		t.Errorf("Expected petal at %d,%d, got %q", x, y, got)
	}
}

// TestPingColorBands verifies latency grading
func TestPingColorBands(t *testing.T) {
	tests := []struct {
		latency time.Duration
		want    render.RGB
	}{
		{20 * time.Millisecond, render.RgbPingFast},
		{99 * time.Millisecond, render.RgbPingFast},
		{100 * time.Millisecond, render.RgbPingMedium},
		{199 * time.Millisecond, render.RgbPingMedium},
		{200 * time.Millisecond, render.RgbPingSlow},
	}
	for _, tt := range tests {
		if got := PingColor(tt.latency); got != tt.want {
			t.Errorf("%v: expected %+v, got %+v", tt.latency, tt.want, got)
		}
	}
}

type playlistStub struct {
	items   []playback.Item
	active  int
	visible bool
	pending bool
}

func (s *playlistStub) Items() []playback.Item { return s.items }
func (s *playlistStub) ActiveItem() (int, bool) {
	return s.active, s.active >= 0
}
func (s *playlistStub) PanelVisible() bool { return s.visible }
func (s *playlistStub) Pending() bool      { return s.pending }

// TestStatusBarStates verifies ping and now-playing text
func TestStatusBarStates(t *testing.T) {
	reg := status.NewRegistry()
	pl := &playlistStub{items: []playback.Item{{Title: "Dawn"}}, active: -1}
	r := NewStatusBarRenderer(pl, nil, reg)
	ctx := render.Context{Now: epoch, Width: 60, Height: 10}

	buf := render.NewBuffer(60, 10)
	r.Render(ctx, buf)
	if !strings.Contains(rowText(buf, 9), constants.PingPendingStr) {
		t.Errorf("Expected pending ping, got %q", rowText(buf, 9))
	}

	reg.Int(status.PingCount).Store(1)
	reg.Flag(status.PingOnline).Store(false)
	buf.Clear()
	r.Render(ctx, buf)
	if !strings.Contains(rowText(buf, 9), constants.PingOfflineStr) {
		t.Errorf("Expected offline, got %q", rowText(buf, 9))
	}

	reg.Flag(status.PingOnline).Store(true)
	reg.Int(status.PingMillis).Store(42)
	pl.active = 0
	buf.Clear()
	r.Render(ctx, buf)
	row := rowText(buf, 9)
	if !strings.Contains(row, "42ms") || !strings.Contains(row, "Dawn") {
		t.Errorf("Expected latency and title, got %q", row)
	}
}

// TestPlaylistPanel verifies the active marker, visibility and hit testing
func TestPlaylistPanel(t *testing.T) {
	pl := &playlistStub{
		items:  []playback.Item{{Title: "Dawn"}, {Title: "Noon"}},
		active: 1,
	}
	r := NewPlaylistRenderer(pl, func() int { return 0 })
	if r.IsVisible() {
		t.Fatal("Hidden panel reported visible")
	}
	pl.visible = true

	buf := render.NewBuffer(80, 20)
	r.Render(render.Context{Now: epoch, Width: 80, Height: 20}, buf)

	if !strings.Contains(rowText(buf, 2), "1. Dawn") {
		t.Errorf("Expected first item on row 2, got %q", rowText(buf, 2))
	}
	row := rowText(buf, 3)
	if !strings.Contains(row, "♪") || !strings.Contains(row, "2. Noon") {
		t.Errorf("Expected active marker on second item, got %q", row)
	}

	x, _, _, _ := PanelBounds(80, 20, 2)
	if i, ok := ItemAt(80, 20, 2, x+5, 3); !ok || i != 1 {
		t.Errorf("Expected hit on item 1, got %d %v", i, ok)
	}
	if _, ok := ItemAt(80, 20, 2, 0, 3); ok {
		t.Error("Click outside panel reported a hit")
	}
	if _, ok := ItemAt(80, 20, 2, x+5, 0); ok {
		t.Error("Click on header reported a hit")
	}
}

type redirectStub struct{ on bool }

func (r redirectStub) Redirect() (string, string, bool) {
	return "https://example.com/", "dev-tools", r.on
}

// TestRedirectOverlay verifies the notice covers the page only when triggered
func TestRedirectOverlay(t *testing.T) {
	off := NewRedirectRenderer(redirectStub{})
	if off.IsVisible() {
		t.Error("Overlay visible without redirect")
	}

	buf := render.NewBuffer(60, 12)
	NewRedirectRenderer(redirectStub{on: true}).Render(render.Context{Now: epoch, Width: 60, Height: 12}, buf)
	text := screenText(buf)
	if !strings.Contains(text, constants.RedirectTitle) || !strings.Contains(text, "https://example.com/") {
		t.Errorf("Overlay missing title or target:\n%s", text)
	}
}

type rippleStub []Ripple

func (s rippleStub) EachRipple(fn func(Ripple)) {
	for _, r := range s {
		fn(r)
	}
}

// TestRippleExpires verifies rings vanish after their duration
func TestRippleExpires(t *testing.T) {
	r := NewRippleRenderer(rippleStub{{X: 10, Y: 5, Born: epoch}})

	buf := render.NewBuffer(30, 12)
	r.Render(render.Context{Now: epoch.Add(constants.RippleDuration / 2), Width: 30, Height: 12}, buf)
	if !strings.ContainsRune(screenText(buf), '·') {
		t.Error("Expected ripple ring mid-animation")
	}

	buf.Clear()
	r.Render(render.Context{Now: epoch.Add(constants.RippleDuration), Width: 30, Height: 12}, buf)
	if strings.ContainsRune(screenText(buf), '·') {
		t.Error("Ripple drawn after expiry")
	}
}
