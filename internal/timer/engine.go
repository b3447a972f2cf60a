package timer

import (
	"time"

	"github.com/xvierd/tempo/internal/ports"
)

// DefaultInterval is the period of tick delivery.
const DefaultInterval = time.Second

// Engine is a countdown anchored to a target end time. Remaining time is
// always recomputed from the clock, never decremented.
//
// All methods must be called from the owner context. The ticker goroutine
// only posts Tick through the Dispatcher.
type Engine struct {
	clock      Clock
	dispatch   Dispatcher
	background ports.BackgroundService
	interval   time.Duration

	target    time.Time
	remaining int
	delivered int
	running   bool
	fired     bool

	// gen invalidates ticks posted by a stopped ticker.
	gen  uint64
	stop chan struct{}

	onTick     func(remaining int)
	onComplete func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithDispatcher sets the owner-context dispatcher. Without one the ticker
// is disabled and delivery is left to explicit Tick calls.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Engine) { e.dispatch = d }
}

// WithBackground attaches a Background Resilience Layer.
func WithBackground(b ports.BackgroundService) Option {
	return func(e *Engine) { e.background = b }
}

// WithInterval sets the tick period. A zero interval disables the ticker,
// leaving delivery to explicit Tick or SyncWithWallClock calls.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// NewEngine creates a stopped engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:    SystemClock{},
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnTick registers the tick handler.
func (e *Engine) OnTick(fn func(remaining int)) { e.onTick = fn }

// OnComplete registers the completion handler.
func (e *Engine) OnComplete(fn func()) { e.onComplete = fn }

// Remaining returns the last computed remaining seconds.
func (e *Engine) Remaining() int { return e.remaining }

// Running reports whether the countdown is active.
func (e *Engine) Running() bool { return e.running }

// Target returns the wall-clock end of the current countdown.
func (e *Engine) Target() time.Time { return e.target }

// Start begins a countdown of d.
func (e *Engine) Start(d time.Duration) {
	e.stopTicker()
	now := e.clock.Now()
	e.target = now.Add(d)
	e.remaining = secondsUntil(e.target, now)
	e.delivered = e.remaining
	e.fired = false
	e.running = true
	if e.background != nil {
		e.background.StartTracking(e.target)
	}
	e.startTicker()
}

// Pause halts the countdown and freezes the remaining time.
func (e *Engine) Pause() {
	if !e.running {
		return
	}
	e.remaining = secondsUntil(e.target, e.clock.Now())
	e.running = false
	e.stopTicker()
	if e.background != nil {
		e.background.StopTracking()
	}
}

// Resume continues a paused countdown. A countdown with nothing left
// completes instead of resuming.
func (e *Engine) Resume() {
	if e.running || e.fired {
		return
	}
	if e.remaining <= 0 {
		e.remaining = 0
		e.complete()
		return
	}
	now := e.clock.Now()
	e.target = now.Add(time.Duration(e.remaining) * time.Second)
	e.running = true
	if e.background != nil {
		e.background.StartTracking(e.target)
	}
	e.startTicker()
}

// Reset stops the engine, sets the remaining time to d and emits one tick.
func (e *Engine) Reset(d time.Duration) {
	wasTracking := e.running
	e.stopTicker()
	e.running = false
	e.fired = false
	e.remaining = int(d / time.Second)
	if d%time.Second > 0 {
		e.remaining++
	}
	if e.remaining < 0 {
		e.remaining = 0
	}
	e.target = e.clock.Now().Add(time.Duration(e.remaining) * time.Second)
	if wasTracking && e.background != nil {
		e.background.StopTracking()
	}
	e.emit(e.remaining)
}

// SyncWithWallClock corrects the countdown after the host was suspended.
// It completes a countdown that crossed zero and emits a corrective tick when
// the displayed value drifted by more than a second.
func (e *Engine) SyncWithWallClock() int {
	if !e.running {
		return e.remaining
	}
	rem := secondsUntil(e.target, e.clock.Now())
	if rem <= 0 {
		e.remaining = 0
		e.emit(0)
		e.complete()
		return 0
	}
	e.remaining = rem
	if abs(e.delivered-rem) > 1 {
		e.emit(rem)
	}
	return rem
}

// Tick recomputes the remaining time and delivers it. At zero the countdown
// stops and completion fires once.
func (e *Engine) Tick() {
	if !e.running {
		return
	}
	rem := secondsUntil(e.target, e.clock.Now())
	if rem > e.delivered {
		// the wall clock moved backwards; hold the displayed value
		rem = e.delivered
	}
	e.remaining = rem
	e.emit(rem)
	if rem <= 0 {
		e.complete()
	}
}

// Stop halts tick delivery without completing. Used on shutdown.
func (e *Engine) Stop() {
	e.stopTicker()
	if e.running && e.background != nil {
		e.background.StopTracking()
	}
	e.running = false
}

func (e *Engine) emit(rem int) {
	e.delivered = rem
	if e.background != nil {
		e.background.UpdateRemaining(rem)
	}
	if e.onTick != nil {
		e.onTick(rem)
	}
}

func (e *Engine) complete() {
	wasRunning := e.running
	e.running = false
	e.stopTicker()
	// disarm before the owner asks whether the platform already rang
	if wasRunning && e.background != nil {
		e.background.StopTracking()
	}
	if e.fired {
		return
	}
	e.fired = true
	if e.onComplete != nil {
		e.onComplete()
	}
}

func (e *Engine) startTicker() {
	if e.interval <= 0 || e.dispatch == nil {
		return
	}
	e.gen++
	gen := e.gen
	stop := make(chan struct{})
	e.stop = stop
	interval := e.interval
	dispatch := e.dispatch

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				dispatch(func() {
					if e.gen == gen {
						e.Tick()
					}
				})
			}
		}
	}()
}

func (e *Engine) stopTicker() {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	e.gen++
}

// secondsUntil rounds the time left up to whole seconds, clamped at zero.
func secondsUntil(target, now time.Time) int {
	d := target.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	return secs
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
