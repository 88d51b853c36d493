package page

import (
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/render/renderers"
)

const mouseButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// HandleEvent dispatches one terminal event, returns false when the visitor quits
// Inspection gestures are swallowed before anything else sees them
func (p *Page) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		p.orchestrator.Resize(w, h)
		return true

	case *tcell.EventMouse:
		// Only press edges count; motion and release are not gestures
		pressed := ev.Buttons() & mouseButtons &^ p.buttons
		p.buttons = ev.Buttons() & mouseButtons
		if pressed == 0 {
			return true
		}
		x, y := ev.Position()
		if p.deterrent.Intercept(tcell.NewEventMouse(x, y, pressed, ev.Modifiers())) {
			return true
		}
		p.gesture()
		if p.redirect.active {
			p.redirect.dismiss()
			return true
		}
		if pressed&tcell.Button1 != 0 {
			p.click(x, y)
		}
		return true

	case *tcell.EventKey:
		if p.deterrent.Intercept(ev) {
			return true
		}
		p.gesture()
		if p.redirect.active {
			p.redirect.dismiss()
			return true
		}
		return p.handleKey(ev)
	}
	return true
}

// gesture unlocks audio and consumes the voice-over's pending retry
func (p *Page) gesture() {
	p.deps.Gesture()
	if p.voice != nil && p.voice.HandleClick() {
		log.Printf("page: retrying voice-over after gesture")
	}
}

// click handles a primary button press at a screen cell
func (p *Page) click(x, y int) {
	p.ripples.add(x, y)

	w, h := p.orchestrator.Size()
	items := len(p.controller.Items())

	// Status bar audio icon toggles the panel
	if y == h-constants.StatusBarHeight && x < len([]rune(constants.AudioStr)) {
		p.controller.TogglePanel()
		return
	}
	if !p.controller.PanelVisible() {
		return
	}

	px, py, pw, _ := renderers.PanelBounds(w, h, items)
	if y == py && x >= px+pw-3 {
		p.controller.ClosePanel()
		return
	}
	if i, ok := renderers.ItemAt(w, h, items, x, y); ok {
		p.cursor = i
		p.selectItem(i)
	}
}

func (p *Page) handleKey(ev *tcell.EventKey) bool {
	items := len(p.controller.Items())

	switch ev.Key() {
	case tcell.KeyCtrlC:
		p.deps.Quit()
		return false
	case tcell.KeyEscape:
		p.controller.ClosePanel()
	case tcell.KeyUp:
		p.moveCursor(-1, items)
	case tcell.KeyDown:
		p.moveCursor(1, items)
	case tcell.KeyEnter:
		p.selectItem(p.cursor)
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q':
			p.deps.Quit()
			return false
		case r == 'p':
			p.controller.TogglePanel()
		case r == 'k':
			p.moveCursor(-1, items)
		case r == 'j':
			p.moveCursor(1, items)
		case r == ' ':
			p.selectItem(p.cursor)
		case r == 'n':
			if err := p.controller.Next(); err != nil {
				log.Printf("page: next: %v", err)
			}
			p.syncCursor()
		case r == 'b':
			if err := p.controller.Previous(); err != nil {
				log.Printf("page: previous: %v", err)
			}
			p.syncCursor()
		case r == 'm':
			if p.deps.Muter != nil {
				log.Printf("page: muted=%v", p.deps.Muter.ToggleMute())
			}
		case r >= '1' && r <= '9':
			if i := int(r - '1'); i < items {
				p.cursor = i
				p.selectItem(i)
			}
		}
	}
	return true
}

func (p *Page) moveCursor(delta, items int) {
	if items == 0 {
		return
	}
	p.cursor = (p.cursor + delta + items) % items
}

// syncCursor follows the controller after Next or Previous
func (p *Page) syncCursor() {
	if i := p.controller.LastSelected(); i >= 0 {
		p.cursor = i
	}
}

func (p *Page) selectItem(i int) {
	if err := p.controller.SelectItem(i); err != nil {
		log.Printf("page: select %d: %v", i, err)
	}
}
