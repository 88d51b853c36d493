// Package service manages the lifecycle of page subsystems that own external resources
package service

// Service defines the lifecycle interface for infrastructure subsystems
// Services own external resources: the audio device, the latency probe's HTTP client
//
// Lifecycle:
//  1. Construction (fully configured)
//  2. Start() - acquire resources, launch timers or goroutines
//  3. [runtime operation]
//  4. Stop() - halt and release, must be idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	Start() error
	Stop() error
}

// Optional is implemented by services whose start failure must not abort the page
// The hub logs the failure and continues without the service
type Optional interface {
	Optional() bool
}
