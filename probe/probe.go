// Package probe measures round-trip latency to the page origin
package probe

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/petalfall/constants"
	"github.com/lixenwraith/petalfall/engine"
	"github.com/lixenwraith/petalfall/status"
)

// Result is one completed measurement
type Result struct {
	Online  bool
	Latency time.Duration
	At      time.Time
}

// Millis returns the latency in whole milliseconds
func (r Result) Millis() int64 {
	return r.Latency.Milliseconds()
}

// Config tunes the probe
type Config struct {
	Origin   string
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultConfig returns the standard cadence for origin
func DefaultConfig(origin string) Config {
	return Config{
		Origin:   origin,
		Interval: constants.PingInterval,
		Timeout:  constants.PingTimeout,
	}
}

// Probe periodically fetches the origin and reports elapsed time or offline
// Requests run on helper goroutines; results are delivered on the scheduler
type Probe struct {
	cfg    Config
	sched  engine.Scheduler
	fault  *engine.FaultHandler
	client *http.Client

	timer    engine.Timer
	inflight atomic.Bool
	onResult []func(Result)

	statOnline *atomic.Bool
	statMillis *atomic.Int64
	statCount  *atomic.Int64
}

// New creates a stopped probe, reg may be nil
func New(cfg Config, sched engine.Scheduler, fault *engine.FaultHandler, reg *status.Registry) *Probe {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if fault == nil {
		fault = engine.NewFaultHandler(nil)
	}
	return &Probe{
		cfg:        cfg,
		sched:      sched,
		fault:      fault,
		client:     &http.Client{Timeout: cfg.Timeout},
		statOnline: reg.Flag(status.PingOnline),
		statMillis: reg.Int(status.PingMillis),
		statCount:  reg.Int(status.PingCount),
	}
}

// OnResult registers a listener, called on the scheduler
func (p *Probe) OnResult(fn func(Result)) {
	p.onResult = append(p.onResult, fn)
}

// Name implements service.Service
func (p *Probe) Name() string {
	return "probe"
}

// Dependencies implements service.Service
func (p *Probe) Dependencies() []string {
	return nil
}

// Start implements service.Service
// The first request is issued immediately, then every interval
func (p *Probe) Start() error {
	if p.timer != nil {
		return nil
	}
	if _, err := url.ParseRequestURI(p.cfg.Origin); err != nil {
		return fmt.Errorf("probe origin %q: %w", p.cfg.Origin, err)
	}
	p.Ping()
	p.timer = p.sched.Every(p.cfg.Interval, p.Ping)
	return nil
}

// Stop implements service.Service
func (p *Probe) Stop() error {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.client.CloseIdleConnections()
	return nil
}

// Ping issues one request unless a previous one is still in flight
func (p *Probe) Ping() {
	if !p.inflight.CompareAndSwap(false, true) {
		return
	}
	target := p.target(time.Now())
	p.fault.Go(func() {
		var res Result
		func() {
			defer p.inflight.Store(false)
			res = p.fetch(target)
		}()
		p.sched.Post(func() { p.deliver(res) })
	})
}

// target appends the cache-busting timestamp to the origin
func (p *Probe) target(now time.Time) string {
	u, err := url.Parse(p.cfg.Origin)
	if err != nil {
		return p.cfg.Origin
	}
	q := u.Query()
	q.Set(constants.PingQueryParam, strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func (p *Probe) fetch(target string) Result {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Printf("probe: request: %v", err)
		return Result{At: start}
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("probe: %v", err)
		return Result{At: start}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return Result{Online: true, Latency: time.Since(start), At: start}
}

func (p *Probe) deliver(res Result) {
	p.statCount.Add(1)
	p.statOnline.Store(res.Online)
	if res.Online {
		p.statMillis.Store(res.Millis())
	} else {
		p.statMillis.Store(-1)
	}
	for _, fn := range p.onResult {
		fn(res)
	}
}
