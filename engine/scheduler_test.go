package engine

import (
	"bytes"
	"context"
	"log"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// TestManualAfterFuncOrder verifies timers fire in deadline order, ties by registration
func TestManualAfterFuncOrder(t *testing.T) {
	s := NewManualScheduler(epoch)
	var got []string

	s.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	s.Advance(20 * time.Millisecond)
	if strings.Join(got, "") != "ab" {
		t.Fatalf("Expected ab after 20ms, got %v", got)
	}

	s.Advance(10 * time.Millisecond)
	if strings.Join(got, "") != "abc" {
		t.Fatalf("Expected abc after 30ms, got %v", got)
	}

	if s.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", s.Pending())
	}
}

// TestManualClockInsideCallback verifies Now reports the timer deadline during its callback
func TestManualClockInsideCallback(t *testing.T) {
	s := NewManualScheduler(epoch)
	var seen time.Time

	s.AfterFunc(15*time.Millisecond, func() { seen = s.Now() })
	s.Advance(time.Second)

	if want := epoch.Add(15 * time.Millisecond); !seen.Equal(want) {
		t.Errorf("Expected callback time %v, got %v", want, seen)
	}
	if want := epoch.Add(time.Second); !s.Now().Equal(want) {
		t.Errorf("Expected clock %v after advance, got %v", want, s.Now())
	}
}

// TestManualEveryAndStop verifies periodic timers repeat until stopped
func TestManualEveryAndStop(t *testing.T) {
	s := NewManualScheduler(epoch)
	count := 0
	var tm Timer
	tm = s.Every(10*time.Millisecond, func() {
		count++
		if count == 3 {
			tm.Stop()
		}
	})

	s.Advance(100 * time.Millisecond)
	if count != 3 {
		t.Errorf("Expected 3 runs before stop, got %d", count)
	}
	if tm.Stop() {
		t.Error("Second Stop should report false")
	}
}

// TestManualStopBeforeFire verifies a stopped one-shot never runs
func TestManualStopBeforeFire(t *testing.T) {
	s := NewManualScheduler(epoch)
	ran := false
	tm := s.AfterFunc(time.Second, func() { ran = true })

	if !tm.Stop() {
		t.Fatal("Stop on pending timer should report true")
	}
	s.Advance(2 * time.Second)
	if ran {
		t.Error("Stopped timer ran")
	}
}

// TestManualNestedScheduling verifies timers created by callbacks run within the same window
func TestManualNestedScheduling(t *testing.T) {
	s := NewManualScheduler(epoch)
	var order []int

	s.AfterFunc(10*time.Millisecond, func() {
		order = append(order, 1)
		s.AfterFunc(10*time.Millisecond, func() { order = append(order, 2) })
		s.Post(func() { order = append(order, 0) })
	})

	s.Advance(25 * time.Millisecond)
	if len(order) != 3 || order[0] != 1 || order[1] != 0 || order[2] != 2 {
		t.Errorf("Expected [1 0 2], got %v", order)
	}
}

// TestLoopRunsPostedTasks verifies the real loop executes tasks and timers in its goroutine
func TestLoopRunsPostedTasks(t *testing.T) {
	l := NewLoop(NewFaultHandler(log.New(&bytes.Buffer{}, "", 0)))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	var order []string

	l.Post(func() { order = append(order, "post") })
	l.AfterFunc(10*time.Millisecond, func() {
		order = append(order, "timer")
		close(done)
	})

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("Timer did not fire")
	}
	l.Stop()

	if err := <-errCh; err != nil {
		t.Errorf("Expected nil error after Stop, got %v", err)
	}
	if len(order) != 2 || order[0] != "post" || order[1] != "timer" {
		t.Errorf("Expected [post timer], got %v", order)
	}
}

// TestLoopRecoversFault verifies a panicking task is logged and later tasks still run
func TestLoopRecoversFault(t *testing.T) {
	var buf bytes.Buffer
	fh := NewFaultHandler(log.New(&buf, "", 0))
	var observed atomic.Int32
	fh.OnFault(func(f Fault) {
		if !strings.Contains(f.Location, "scheduler_test.go") {
			t.Errorf("Expected fault location in test file, got %q", f.Location)
		}
		observed.Add(1)
	})

	l := NewLoop(fh)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	l.Post(func() { panic("boom") })
	l.Post(func() { close(done) })

	go l.Run(ctx)

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("Task after panic did not run")
	}
	l.Stop()

	if fh.Count() != 1 || observed.Load() != 1 {
		t.Errorf("Expected 1 fault, got count=%d observed=%d", fh.Count(), observed.Load())
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("Expected fault message in log, got %q", buf.String())
	}
}

// TestLoopTimerStop verifies a stopped loop timer never runs
func TestLoopTimerStop(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)
	defer l.Stop()

	var ran atomic.Bool
	tm := l.AfterFunc(20*time.Millisecond, func() { ran.Store(true) })
	if !tm.Stop() {
		t.Fatal("Expected Stop to succeed on pending timer")
	}

	time.Sleep(60 * time.Millisecond)
	if ran.Load() {
		t.Error("Stopped timer ran")
	}
}

// TestLoopDoubleRun verifies Run rejects a second concurrent caller
func TestLoopDoubleRun(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	l.Post(func() { close(started) })
	go l.Run(ctx)
	<-started

	if err := l.Run(ctx); err != ErrLoopRunning {
		t.Errorf("Expected ErrLoopRunning, got %v", err)
	}
	l.Stop()
}
