package playback

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/status"
)

// State is the controller's playback state
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Session is one playback request for a playlist item
type Session struct {
	ID     uuid.UUID
	Source string
	Item   int

	track  Track
	active bool
}

// Active reports whether the session holds the active marker
func (s *Session) Active() bool {
	return s.active
}

// Controller enforces at most one audible playlist session
// All methods must be called from the scheduler's goroutine
type Controller struct {
	sched   engine.Scheduler
	backend Backend
	items   []Item

	// current is the newest session, pending or active
	// Results carrying any other session ID are stale and discarded
	current    *Session
	activeItem int
	lastItem   int

	panelVisible bool
	volume       float64
	fader        *Fader

	onChange []func()

	statActive   *atomic.Bool
	statFailures *atomic.Int64
	statVolume   *status.AtomicFloat
}

// NewController creates an idle controller over items, reg may be nil
func NewController(sched engine.Scheduler, backend Backend, items []Item, volume float64, reg *status.Registry) *Controller {
	if reg == nil {
		reg = status.NewRegistry()
	}
	c := &Controller{
		sched:        sched,
		backend:      backend,
		items:        items,
		activeItem:   -1,
		lastItem:     -1,
		volume:       volume,
		fader:        NewFader(sched, constants.FadeSteps),
		statActive:   reg.Flag(status.PlaybackActive),
		statFailures: reg.Int(status.PlaybackFailures),
		statVolume:   reg.Float(status.PlaybackVolume),
	}
	c.statVolume.Set(volume)
	return c
}

// OnChange registers a listener for state, marker and panel changes
func (c *Controller) OnChange(fn func()) {
	c.onChange = append(c.onChange, fn)
}

func (c *Controller) notify() {
	for _, fn := range c.onChange {
		fn()
	}
}

// Items returns the playlist
func (c *Controller) Items() []Item {
	return c.items
}

// SelectItem stops whatever is playing and attempts the item at index
// Playback failures are logged, never returned; only an invalid index is an error
func (c *Controller) SelectItem(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrNoSuchItem, index)
	}
	item := c.items[index]

	c.deactivate()
	c.lastItem = index

	id := uuid.New()
	track, err := c.backend.Load(item.Source)
	if err != nil {
		c.statFailures.Add(1)
		log.Printf("playback: session %s: load %q: %v", id, item.Source, err)
		c.notify()
		return nil
	}

	c.current = &Session{
		ID:     id,
		Source: item.Source,
		Item:   index,
		track:  track,
	}

	track.SetVolume(c.volume)
	track.OnEnded(func() { c.ended(id) })
	track.Play(func(err error) { c.resolved(id, track, err) })

	c.notify()
	return nil
}

// deactivate stops the current session and clears every active marker
func (c *Controller) deactivate() {
	if c.current != nil {
		c.current.track.Stop()
		c.current.active = false
		c.current = nil
	}
	c.activeItem = -1
	c.statActive.Store(false)
}

// owns reports whether id names the current session
func (c *Controller) owns(id uuid.UUID) bool {
	return c.current != nil && c.current.ID == id
}

func (c *Controller) resolved(id uuid.UUID, track Track, err error) {
	if !c.owns(id) {
		// Superseded while starting
		log.Printf("playback: discard stale result for session %s", id)
		if err == nil {
			track.Stop()
		}
		return
	}

	sess := c.current
	if err != nil {
		c.current = nil
		c.statFailures.Add(1)
		log.Printf("playback: session %s: play %q: %v", id, sess.Source, err)
		c.notify()
		return
	}

	sess.active = true
	c.activeItem = sess.Item
	c.statActive.Store(true)
	log.Printf("playback: session %s: playing %q", id, sess.Source)
	c.notify()
}

func (c *Controller) ended(id uuid.UUID) {
	if !c.owns(id) {
		return
	}
	c.current.active = false
	c.current = nil
	c.activeItem = -1
	c.statActive.Store(false)
	c.notify()
}

// Current returns the newest session, pending or active, or nil
func (c *Controller) Current() *Session {
	return c.current
}

// State returns Playing when a session holds the active marker
func (c *Controller) State() State {
	if c.current != nil && c.current.active {
		return Playing
	}
	return Idle
}

// Active returns the active session or nil
func (c *Controller) Active() *Session {
	if c.current != nil && c.current.active {
		return c.current
	}
	return nil
}

// Pending reports whether a playback attempt is awaiting its result
func (c *Controller) Pending() bool {
	return c.current != nil && !c.current.active
}

// ActiveItem returns the index holding the active marker
func (c *Controller) ActiveItem() (int, bool) {
	return c.activeItem, c.activeItem >= 0
}

// LastSelected returns the most recently selected index, -1 before any selection
func (c *Controller) LastSelected() int {
	return c.lastItem
}

// Next selects the item after the last selected one, wrapping around
func (c *Controller) Next() error {
	if len(c.items) == 0 {
		return ErrNoSuchItem
	}
	return c.SelectItem((c.lastItem + 1) % len(c.items))
}

// Previous selects the item before the last selected one, wrapping around
func (c *Controller) Previous() error {
	n := len(c.items)
	if n == 0 {
		return ErrNoSuchItem
	}
	i := c.lastItem - 1
	if c.lastItem < 0 {
		i = n - 1
	}
	return c.SelectItem((i + n) % n)
}

// TogglePanel flips playlist panel visibility
func (c *Controller) TogglePanel() {
	c.panelVisible = !c.panelVisible
	c.notify()
}

// ClosePanel hides the playlist panel
func (c *Controller) ClosePanel() {
	if c.panelVisible {
		c.panelVisible = false
		c.notify()
	}
}

// PanelVisible reports playlist panel visibility
func (c *Controller) PanelVisible() bool {
	return c.panelVisible
}

// Volume returns the ambient volume applied to playlist sessions
func (c *Controller) Volume() float64 {
	return c.volume
}

// FadeAmbient ramps the ambient volume to target over d
// The level applies to the active session and to every later one
func (c *Controller) FadeAmbient(target float64, d time.Duration) {
	target = min(max(target, 0), 1)
	c.fader.Start(c.volume, target, d, c.setVolume, nil)
}

// Fading reports whether an ambient fade is running
func (c *Controller) Fading() bool {
	return c.fader.Active()
}

func (c *Controller) setVolume(v float64) {
	c.volume = v
	c.statVolume.Set(v)
	if c.current != nil {
		c.current.track.SetVolume(v)
	}
}

// Stop silences the current session and abandons any fade
func (c *Controller) Stop() {
	c.fader.Stop()
	c.deactivate()
	c.notify()
}
