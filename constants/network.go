package constants

import "time"

// Latency probe
const (
	PingInterval = 5 * time.Second
	PingTimeout  = 3 * time.Second

	// PingQueryParam carries the cache-busting timestamp
	PingQueryParam = "t"
)

// Latency color bands
const (
	PingFastThreshold = 100 * time.Millisecond
	PingSlowThreshold = 200 * time.Millisecond
)
