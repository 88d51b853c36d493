package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is the real-time Scheduler: one goroutine drains a task queue
// Timers fire on runtime goroutines and post their callbacks back to the queue,
// so every callback executes on the goroutine that called Run
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	fault *FaultHandler
}

// NewLoop creates a loop; task panics are recovered by fault
func NewLoop(fault *FaultHandler) *Loop {
	if fault == nil {
		fault = NewFaultHandler(nil)
	}
	return &Loop{
		queue: make([]func(), 0, 64),
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		fault: fault,
	}
}

// Now implements Scheduler
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post implements Scheduler, never blocks
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled or Stop is called
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
			l.drain()
		}
	}
}

// Stop ends Run and halts every ticker created by this loop
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

// drain runs queued tasks in FIFO order, including tasks posted while draining
func (l *Loop) drain() {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = make([]func(), 0, cap(batch))
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			select {
			case <-l.stop:
				return
			default:
			}
			l.fault.Run(fn)
		}
	}
}

// AfterFunc implements Scheduler
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// Stop may have raced the runtime timer, checked on the loop goroutine
			if !t.state.CompareAndSwap(timerPending, timerFired) {
				return
			}
			fn()
		})
	})
	return t
}

// Every implements Scheduler
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	t := &loopTicker{
		ticker: time.NewTicker(d),
		quit:   make(chan struct{}),
	}
	l.fault.Go(func() {
		defer t.ticker.Stop()
		for {
			select {
			case <-t.ticker.C:
				l.Post(func() {
					if !t.stopped.Load() {
						fn()
					}
				})
			case <-t.quit:
				return
			case <-l.stop:
				return
			}
		}
	})
	return t
}

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	if !t.state.CompareAndSwap(timerPending, timerStopped) {
		return false
	}
	t.timer.Stop()
	return true
}

type loopTicker struct {
	ticker  *time.Ticker
	quit    chan struct{}
	stopped atomic.Bool
}

func (t *loopTicker) Stop() bool {
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	close(t.quit)
	return true
}
