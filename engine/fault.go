package engine

import (
	"fmt"
	"log"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

// Fault describes a recovered panic
type Fault struct {
	Value    any
	Location string // file:line of the panicking frame
	Stack    []byte
}

func (f Fault) String() string {
	return fmt.Sprintf("%v at %s", f.Value, f.Location)
}

// FaultHandler recovers panics raised by loop tasks and helper goroutines
// A fault is logged and swallowed; the page keeps running with the failing effect missing
type FaultHandler struct {
	logger  *log.Logger
	count   atomic.Int64
	onFault func(Fault)
}

// NewFaultHandler creates a handler writing to logger, nil uses the standard logger
func NewFaultHandler(logger *log.Logger) *FaultHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &FaultHandler{logger: logger}
}

// OnFault registers an observer, must be called before the handler is used
func (h *FaultHandler) OnFault(fn func(Fault)) {
	h.onFault = fn
}

// Count returns the number of faults recovered so far
func (h *FaultHandler) Count() int64 {
	return h.count.Load()
}

// Run executes fn, recovering any panic
func (h *FaultHandler) Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.report(r)
		}
	}()
	fn()
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for helper goroutines
func (h *FaultHandler) Go(fn func()) {
	go h.Run(fn)
}

func (h *FaultHandler) report(r any) {
	f := Fault{
		Value:    r,
		Location: panicLocation(),
		Stack:    debug.Stack(),
	}
	h.count.Add(1)
	h.logger.Printf("[FAULT] %s\n%s", f, f.Stack)
	if h.onFault != nil {
		h.onFault(f)
	}
}

// panicLocation finds the frame that called panic, falls back to "unknown"
func panicLocation() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	return "unknown"
}
