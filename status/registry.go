package status

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Metric keys published by page components
const (
	ProgressPercent = "progress.percent"
	ProgressTicks   = "progress.ticks"

	PetalsLive    = "petals.live"
	PetalsCreated = "petals.created"
	PetalsRemoved = "petals.removed"
	PetalsSkipped = "petals.skipped"

	PlaybackActive   = "playback.active"
	PlaybackFailures = "playback.failures"
	PlaybackVolume   = "playback.volume"

	VoiceOverPlayed = "voiceover.played"

	PingOnline = "ping.online"
	PingMillis = "ping.ms"
	PingCount  = "ping.count"

	Faults = "engine.faults"
)

// Registry holds named metrics
// Components cache the returned pointers at construction; reads and writes are lock-free afterwards
type Registry struct {
	mu     sync.RWMutex
	flags  map[string]*atomic.Bool
	ints   map[string]*atomic.Int64
	floats map[string]*AtomicFloat
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		flags:  make(map[string]*atomic.Bool),
		ints:   make(map[string]*atomic.Int64),
		floats: make(map[string]*AtomicFloat),
	}
}

// Flag returns the bool metric for key, creating it on first use
func (r *Registry) Flag(key string) *atomic.Bool {
	return lookup(&r.mu, r.flags, key)
}

// Int returns the integer metric for key, creating it on first use
func (r *Registry) Int(key string) *atomic.Int64 {
	return lookup(&r.mu, r.ints, key)
}

// Float returns the float metric for key, creating it on first use
func (r *Registry) Float(key string) *AtomicFloat {
	return lookup(&r.mu, r.floats, key)
}

func lookup[T any](mu *sync.RWMutex, m map[string]*T, key string) *T {
	mu.RLock()
	if ptr, ok := m[key]; ok {
		mu.RUnlock()
		return ptr
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if ptr, ok := m[key]; ok {
		return ptr
	}
	ptr := new(T)
	m[key] = ptr
	return ptr
}

// Snapshot renders every metric as "key=value", sorted by key
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.flags)+len(r.ints)+len(r.floats))
	for k, v := range r.flags {
		out = append(out, fmt.Sprintf("%s=%t", k, v.Load()))
	}
	for k, v := range r.ints {
		out = append(out, fmt.Sprintf("%s=%d", k, v.Load()))
	}
	for k, v := range r.floats {
		out = append(out, fmt.Sprintf("%s=%.2f", k, v.Get()))
	}
	sort.Strings(out)
	return out
}
