package page

import (
	"log"

	"github.com/lixenwraith/petalfall/deterrent"
)

// redirectState is the page's rendition of navigating away
type redirectState struct {
	active  bool
	target  string
	gesture deterrent.Trigger
	count   int
}

func (r *redirectState) show(t deterrent.Trigger, target string) {
	log.Printf("page: redirect to %s (%s)", target, t)
	r.active = true
	r.target = target
	r.gesture = t
	r.count++
}

func (r *redirectState) dismiss() {
	r.active = false
}

// Redirect implements renderers.RedirectView
func (r *redirectState) Redirect() (string, string, bool) {
	return r.target, r.gesture.String(), r.active
}
