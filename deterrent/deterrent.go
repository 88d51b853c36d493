// Package deterrent swallows inspection gestures and sends the visitor elsewhere
package deterrent

import (
	"log"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Trigger identifies the intercepted gesture
type Trigger int

const (
	None Trigger = iota
	ContextMenu
	Save
	ViewSource
	DevTools
)

var triggerNames = [...]string{
	None:        "none",
	ContextMenu: "context-menu",
	Save:        "save",
	ViewSource:  "view-source",
	DevTools:    "dev-tools",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "unknown"
}

// Redirect is called with the gesture and the configured target
type Redirect func(trigger Trigger, target string)

// Interceptor matches gestures against the blocked set
// It holds no state beyond its configuration
type Interceptor struct {
	target   string
	redirect Redirect
	enabled  bool
}

// New creates an interceptor, a nil redirect only swallows
func New(target string, redirect Redirect, enabled bool) *Interceptor {
	return &Interceptor{target: target, redirect: redirect, enabled: enabled}
}

// Intercept returns true when ev is blocked and must not reach the page
func (i *Interceptor) Intercept(ev tcell.Event) bool {
	if !i.enabled {
		return false
	}
	trigger := Classify(ev)
	if trigger == None {
		return false
	}
	log.Printf("deterrent: blocked %s", trigger)
	if i.redirect != nil {
		i.redirect(trigger, i.target)
	}
	return true
}

// Classify maps an event to the gesture it represents
func Classify(ev tcell.Event) Trigger {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button2 != 0 {
			return ContextMenu
		}
	case *tcell.EventKey:
		return classifyKey(ev)
	}
	return None
}

func classifyKey(ev *tcell.EventKey) Trigger {
	switch ev.Key() {
	case tcell.KeyF12:
		return DevTools
	case tcell.KeyCtrlS:
		return Save
	case tcell.KeyCtrlU:
		return ViewSource
	case tcell.KeyCtrlI, tcell.KeyCtrlJ, tcell.KeyCtrlC:
		// Some terminals fold Ctrl+Shift+letter into the control code
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModShift) == tcell.ModCtrl|tcell.ModShift {
			return DevTools
		}
	case tcell.KeyRune:
		mods := ev.Modifiers()
		if mods&tcell.ModCtrl == 0 {
			return None
		}
		r := unicode.ToUpper(ev.Rune())
		if mods&tcell.ModShift != 0 {
			switch r {
			case 'I', 'J', 'C':
				return DevTools
			}
		}
		// Extended keyboard protocols report Ctrl+letter as a modified rune
		switch r {
		case 'S':
			return Save
		case 'U':
			return ViewSource
		}
	}
	return None
}
