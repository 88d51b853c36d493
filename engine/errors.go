package engine

import "errors"

// ErrLoopRunning is returned by Run when the loop is already running
var ErrLoopRunning = errors.New("loop already running")
