package timer

import (
	"context"
)

// Loop is a serial executor used by headless hosts as the owner context.
// Functions posted to it run one at a time on the goroutine calling Run.
type Loop struct {
	queue chan func()
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{queue: make(chan func(), capacity)}
}

// Post queues fn. It blocks when the queue is full.
func (l *Loop) Post(fn func()) {
	l.queue <- fn
}

// Dispatcher returns a Dispatcher that posts onto the loop.
func (l *Loop) Dispatcher() Dispatcher {
	return l.Post
}

// Run executes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}
