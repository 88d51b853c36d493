// Package page assembles every component of the page and drives it from one scheduler
package page

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/petalfall/config"
	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/deterrent"
	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/loading"
	"github.com/lixenwraith/petalfall/petals"
	"github.com/lixenwraith/petalfall/playback"
	"github.com/lixenwraith/petalfall/probe"
	"github.com/lixenwraith/petalfall/render"
	"github.com/lixenwraith/petalfall/render/renderers"
	"github.com/lixenwraith/petalfall/service"
	"github.com/lixenwraith/petalfall/status"
)

// Muter is the master mute switch of the audio output
type Muter interface {
	ToggleMute() bool
	IsMuted() bool
}

// Deps carries everything the page needs from the outside
type Deps struct {
	Config   config.Config
	Playlist config.Playlist

	Scheduler engine.Scheduler
	Fault     *engine.FaultHandler
	Screen    tcell.Screen
	Registry  *status.Registry
	Rand      *rand.Rand

	Backend playback.Backend
	Muter   Muter

	// Gesture is called on every user click or key press, before the page handles it
	Gesture func()

	// Services are started with the page; the probe is added by New
	Services []service.Service

	// Quit is called when the visitor leaves the page
	Quit func()
}

// Page owns every component and is the only place they are wired together
// All methods must be called from the scheduler's goroutine
type Page struct {
	deps  Deps
	sched engine.Scheduler

	sim        *loading.Simulator
	field      *petals.Field
	spawner    *petals.Spawner
	controller *playback.Controller
	voice      *playback.VoiceOver
	probe      *probe.Probe
	deterrent  *deterrent.Interceptor
	hub        *service.Hub

	orchestrator *render.Orchestrator
	frameTimer   engine.Timer
	frame        uint64

	reveal   *reveal
	ripples  *ripples
	redirect redirectState
	cursor   int
	buttons  tcell.ButtonMask
	started  bool

	// Origin reachability as last reported, valid once pingSeen
	pingOnline bool
	pingSeen   bool
}

// New constructs and wires the page; nothing runs until Start
func New(deps Deps) (*Page, error) {
	if deps.Scheduler == nil || deps.Screen == nil || deps.Backend == nil {
		return nil, fmt.Errorf("page: scheduler, screen and backend are required")
	}
	if len(deps.Playlist.Items) == 0 {
		return nil, config.ErrEmptyPlaylist
	}
	if deps.Registry == nil {
		deps.Registry = status.NewRegistry()
	}
	if deps.Fault == nil {
		deps.Fault = engine.NewFaultHandler(nil)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Gesture == nil {
		deps.Gesture = func() {}
	}
	if deps.Quit == nil {
		deps.Quit = func() {}
	}

	cfg := deps.Config
	sched := deps.Scheduler
	reg := deps.Registry

	p := &Page{
		deps:         deps,
		sched:        sched,
		field:        petals.NewField(),
		hub:          service.NewHub(),
		orchestrator: render.NewOrchestrator(deps.Screen),
		ripples:      newRipples(sched),
	}

	p.sim = loading.NewSimulator(sched, deps.Rand, loading.DefaultConfig(), reg)
	p.reveal = newReveal(sched, p.sim, constants.RevealFadeDuration)
	p.sim.OnComplete(p.reveal.begin)

	petalCfg := petals.DefaultConfig()
	petalCfg.MaxLive = cfg.MaxPetals
	p.spawner = petals.NewSpawner(sched, deps.Rand, p.field, p.fieldBounds, petalCfg, reg)

	p.controller = playback.NewController(sched, deps.Backend, deps.Playlist.Items, cfg.Volume, reg)

	voiceSrc := deps.Playlist.VoiceOver
	if cfg.VoiceOver != "" {
		voiceSrc = cfg.VoiceOver
	}
	if voiceSrc != "" {
		p.voice = playback.NewVoiceOver(sched, deps.Backend, voiceSrc, cfg.VoiceDelay, constants.VoiceOverVolume, reg)
		ducked := cfg.Ducked
		p.voice.OnFinished(func() {
			log.Printf("page: voice-over finished, fading ambient to %.2f", ducked)
			p.controller.FadeAmbient(ducked, constants.FadeDuration)
		})
	}

	p.deterrent = deterrent.New(cfg.RedirectURL, p.redirect.show, cfg.Deterrents)

	for _, svc := range deps.Services {
		if err := p.hub.Register(svc); err != nil {
			return nil, err
		}
	}
	if cfg.Origin != "" {
		p.probe = probe.New(probe.DefaultConfig(cfg.Origin), sched, deps.Fault, reg)
		p.probe.OnResult(p.onPing)
		if err := p.hub.Register(p.probe); err != nil {
			return nil, err
		}
	}

	p.registerRenderers()
	return p, nil
}

func (p *Page) registerRenderers() {
	o := p.orchestrator
	o.Register(renderers.NewPetalRenderer(p.field), render.PriorityParticle)
	o.Register(renderers.NewContentRenderer(p.reveal), render.PriorityContent)
	o.Register(renderers.NewRippleRenderer(p.ripples), render.PriorityEffect)
	o.Register(renderers.NewPlaylistRenderer(p.controller, func() int { return p.cursor }), render.PriorityPanel)
	o.Register(renderers.NewLoadingRenderer(p.reveal), render.PriorityLoading)

	var muted func() bool
	if p.deps.Muter != nil {
		muted = p.deps.Muter.IsMuted
	}
	o.Register(renderers.NewStatusBarRenderer(p.controller, muted, p.deps.Registry), render.PriorityUI)
	o.Register(renderers.NewRedirectRenderer(&p.redirect), render.PriorityOverlay)
}

// onPing logs origin reachability when it changes
func (p *Page) onPing(res probe.Result) {
	if p.pingSeen && res.Online == p.pingOnline {
		return
	}
	if res.Online {
		log.Printf("page: origin online, %dms", res.Millis())
	} else {
		log.Printf("page: origin offline")
	}
	p.pingOnline = res.Online
	p.pingSeen = true
}

// fieldBounds is the petal area: the screen above the status bar
func (p *Page) fieldBounds() (int, int) {
	w, h := p.orchestrator.Size()
	return w, max(h-constants.StatusBarHeight, 1)
}

// Start launches services, timers and the first frame
func (p *Page) Start() error {
	if p.started {
		return nil
	}
	if err := p.hub.StartAll(); err != nil {
		return err
	}
	p.started = true

	p.sim.Start()
	p.spawner.Start()
	if p.voice != nil {
		p.voice.Schedule()
	}

	p.Render()
	p.frameTimer = p.sched.Every(constants.FrameUpdateInterval, p.Render)
	return nil
}

// Stop halts playback, rendering and services
func (p *Page) Stop() {
	if !p.started {
		return
	}
	p.started = false

	if p.frameTimer != nil {
		p.frameTimer.Stop()
		p.frameTimer = nil
	}
	if p.voice != nil {
		p.voice.Stop()
	}
	p.controller.Stop()
	p.hub.StopAll()
}

// Render draws one frame
func (p *Page) Render() {
	p.frame++
	p.orchestrator.RenderFrame(render.Context{
		Now:   p.sched.Now(),
		Frame: p.frame,
	})
}

// Controller returns the playlist controller
func (p *Page) Controller() *playback.Controller {
	return p.controller
}

// VoiceOver returns the voice-over, nil when none is configured
func (p *Page) VoiceOver() *playback.VoiceOver {
	return p.voice
}

// Simulator returns the loading progress simulator
func (p *Page) Simulator() *loading.Simulator {
	return p.sim
}

// Field returns the live petal field
func (p *Page) Field() *petals.Field {
	return p.field
}

// Revealed reports whether the loading screen is gone
func (p *Page) Revealed() bool {
	return p.reveal.stage == stageRevealed
}
