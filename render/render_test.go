package render

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

// MockScreen is a minimal tcell.Screen that records drawn cells
type MockScreen struct {
	tcell.Screen
	width, height int
	cells         map[[2]int]rune
	shows         int
	syncs         int
}

func newMockScreen(w, h int) *MockScreen {
	return &MockScreen{width: w, height: h, cells: make(map[[2]int]rune)}
}

func (m *MockScreen) Size() (int, int) { return m.width, m.height }
func (m *MockScreen) Show()            { m.shows++ }
func (m *MockScreen) Sync()            { m.syncs++ }
func (m *MockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.cells[[2]int{x, y}] = mainc
}

// markRenderer writes its mark at a fixed cell and records call order
type markRenderer struct {
	mark    rune
	x, y    int
	order   *[]rune
	visible bool
}

func (r *markRenderer) Render(ctx Context, buf *Buffer) {
	*r.order = append(*r.order, r.mark)
	buf.SetWithBg(r.x, r.y, r.mark, RgbText, RgbBackground)
}

func (r *markRenderer) IsVisible() bool { return r.visible }

// TestOrchestratorPriorityOrder verifies lower priorities render first and ties keep registration order
func TestOrchestratorPriorityOrder(t *testing.T) {
	screen := newMockScreen(10, 4)
	o := NewOrchestrator(screen)

	var order []rune
	o.Register(&markRenderer{mark: 'c', order: &order, visible: true}, PriorityUI)
	o.Register(&markRenderer{mark: 'a', order: &order, visible: true}, PriorityBackground)
	o.Register(&markRenderer{mark: 'b', order: &order, visible: true}, PriorityParticle)
	o.Register(&markRenderer{mark: 'd', order: &order, visible: true}, PriorityUI)
	o.Register(&markRenderer{mark: 'x', order: &order, visible: false}, PriorityOverlay)

	o.RenderFrame(Context{Now: time.Now()})

	if string(order) != "abcd" {
		t.Fatalf("Expected render order abcd, got %s", string(order))
	}
	// Later renderers overwrite earlier ones on the same cell
	if got := screen.cells[[2]int{0, 0}]; got != 'd' {
		t.Errorf("Expected top cell 'd', got %q", got)
	}
	if screen.shows != 1 {
		t.Errorf("Expected one Show, got %d", screen.shows)
	}
}

// TestOrchestratorResize verifies buffer dimensions follow the screen
func TestOrchestratorResize(t *testing.T) {
	screen := newMockScreen(10, 4)
	o := NewOrchestrator(screen)
	o.Resize(20, 6)

	if w, h := o.Size(); w != 20 || h != 6 {
		t.Errorf("Expected 20x6, got %dx%d", w, h)
	}
	if screen.syncs != 1 {
		t.Errorf("Expected Sync on resize, got %d", screen.syncs)
	}

	var seen Context
	o.Register(rendererFunc(func(ctx Context, _ *Buffer) { seen = ctx }), PriorityUI)
	o.RenderFrame(Context{})
	if seen.Width != 20 || seen.Height != 6 {
		t.Errorf("Context not sized from buffer: %+v", seen)
	}
}

type rendererFunc func(Context, *Buffer)

func (f rendererFunc) Render(ctx Context, buf *Buffer) { f(ctx, buf) }

// TestBufferBounds verifies out-of-bounds writes are dropped
func TestBufferBounds(t *testing.T) {
	b := NewBuffer(3, 2)
	b.SetWithBg(-1, 0, 'x', RgbText, RgbBackground)
	b.SetWithBg(3, 0, 'x', RgbText, RgbBackground)
	b.SetWithBg(0, 2, 'x', RgbText, RgbBackground)
	b.SetFg(5, 5, 'x', RgbText, 1)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if b.Get(x, y).Rune != ' ' {
				t.Errorf("Cell %d,%d written by out-of-bounds call", x, y)
			}
		}
	}
}

// TestSetFgOpacity verifies glyph colors fade toward the background
func TestSetFgOpacity(t *testing.T) {
	b := NewBuffer(2, 1)
	b.SetFg(0, 0, '*', RGB{255, 255, 255}, 0)
	if c := b.Get(0, 0); c.Fg != RgbBackground {
		t.Errorf("Zero opacity should match background, got %+v", c.Fg)
	}
	b.SetFg(1, 0, '*', RGB{255, 255, 255}, 1)
	if c := b.Get(1, 0); c.Fg != (RGB{255, 255, 255}) {
		t.Errorf("Full opacity should match source, got %+v", c.Fg)
	}
}

// TestTextClipAndWide verifies clipping and wide rune handling
func TestTextClipAndWide(t *testing.T) {
	b := NewBuffer(10, 1)
	end := b.Text(0, 0, "abcdef", RgbText, RgbBackground, 4)
	if end != 4 || b.Get(4, 0).Rune != ' ' {
		t.Errorf("Expected clip at 4, got end %d", end)
	}

	b.Clear()
	end = b.Text(0, 0, "桜x", RgbText, RgbBackground, 10)
	if end != 3 {
		t.Errorf("Expected wide rune to take two cells, end %d", end)
	}
	if b.Get(0, 0).Rune != '桜' || b.Get(1, 0).Rune != 0 || b.Get(2, 0).Rune != 'x' {
		t.Errorf("Unexpected cells %q %q %q", b.Get(0, 0).Rune, b.Get(1, 0).Rune, b.Get(2, 0).Rune)
	}
}

// TestBlendModes verifies compositing operations
func TestBlendModes(t *testing.T) {
	dst := RGB{100, 50, 200}
	src := RGB{200, 100, 0}

	tests := []struct {
		mode  BlendMode
		alpha float64
		want  RGB
	}{
		{BlendReplace, 0.3, src},
		{BlendAlpha, 0, dst},
		{BlendAlpha, 1, src},
		{BlendAlpha, 0.5, RGB{150, 75, 100}},
		{BlendAdd, 1, RGB{255, 150, 200}},
		{BlendMax, 1, RGB{200, 100, 200}},
	}
	for _, tt := range tests {
		if got := tt.mode.apply(dst, src, tt.alpha); got != tt.want {
			t.Errorf("Mode %d alpha %.1f: expected %+v, got %+v", tt.mode, tt.alpha, tt.want, got)
		}
	}
}
