package engine

import "time"

// Timer is a handle to a scheduled callback
type Timer interface {
	// Stop prevents any further run of the callback
	// Returns false if the timer already fired (one-shot) or was already stopped
	Stop() bool
}

// Scheduler runs callbacks on a single logical thread
// Callbacks registered through one Scheduler never execute concurrently with each other,
// so state touched only from callbacks needs no locking
type Scheduler interface {
	// Now returns the scheduler clock
	Now() time.Time

	// AfterFunc runs fn once after d
	AfterFunc(d time.Duration, fn func()) Timer

	// Every runs fn repeatedly with period d, first run after d
	Every(d time.Duration, fn func()) Timer

	// Post queues fn for the next turn of the loop, safe to call from any goroutine
	Post(fn func())
}
