// Package timer implements the wall-clock-anchored countdown engine.
package timer

import "time"

// Clock reports the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// Dispatcher runs fn on the owner's execution context.
// Implementations must not run two functions concurrently.
type Dispatcher func(fn func())
