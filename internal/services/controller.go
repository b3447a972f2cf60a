package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xvierd/tempo/internal/background"
	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/event"
	"github.com/xvierd/tempo/internal/logging"
	"github.com/xvierd/tempo/internal/ports"
	"github.com/xvierd/tempo/internal/timer"
)

// State is the lifecycle state of the controller.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Completion dialog titles.
const (
	TitleFocusCompleted = "Pomodoro Completed!"
	TitleBreakCompleted = "Break Completed!"
)

// CompletionDialog is surfaced when a countdown reaches zero.
type CompletionDialog struct {
	Title   string
	Message string
	Next    domain.Mode
}

// breakSuggestions cycle on each focus completion when enabled.
var breakSuggestions = []string{
	"Stand up and stretch",
	"Drink a glass of water",
	"Look at something far away for 20 seconds",
	"Take a short walk",
	"Take a few deep breaths",
	"Tidy up your desk",
}

// ControllerDeps wires the controller's collaborators. Storage and Settings
// are required; the rest may be nil.
type ControllerDeps struct {
	Storage    ports.Storage
	Settings   ports.SettingsService
	Stats      *StatisticsService
	Sound      ports.SoundService
	Vibration  ports.VibrationService
	Notifier   ports.NotificationService
	Background ports.BackgroundService
	Git        ports.GitDetector
	Bus        *event.Bus
	Logger     *slog.Logger
	Clock      timer.Clock
	WorkingDir string

	// Dispatch posts timer callbacks onto the owner context. When nil the
	// controller runs with manual ticks and no alarm auto-stop.
	Dispatch timer.Dispatcher

	// ManualTicks disables the ticker; the host drives Tick itself.
	ManualTicks bool
}

// Controller owns the session lifecycle: countdown, mode cycling, alarm,
// tasks and per-session feature state.
//
// It is not safe for concurrent use. Every method, and the tick and alarm
// callbacks it receives through the dispatcher, must run on one context.
type Controller struct {
	storage    ports.Storage
	settings   ports.SettingsService
	stats      *StatisticsService
	sound      ports.SoundService
	vibration  ports.VibrationService
	notifier   ports.NotificationService
	background ports.BackgroundService
	git        ports.GitDetector
	bus        *event.Bus
	logger     *slog.Logger
	clock      timer.Clock
	dispatch   timer.Dispatcher
	workingDir string

	engine    *timer.Engine
	state     State
	mode      domain.Mode
	remaining int

	// session is the open session. It is untimed when tasks were added
	// before any countdown started for it.
	session *domain.Session
	timed   bool
	tasks   []*domain.Task
	tempID  int64

	completedFocus     int
	lastCompletedMode  domain.Mode
	lastFocusSessionID string
	pendingNext        *domain.Mode

	ringing    bool
	dialog     *CompletionDialog
	alarmTimer *time.Timer
	alarmGen   uint64

	oneMinuteWarned bool
	suggestion      string
	suggestionIdx   int
	retroPending    bool
	retroSession    *domain.Session

	streakWarning      bool
	streakAcknowledged bool
	dashboard          Dashboard
}

// NewController creates an idle controller in focus mode.
func NewController(deps ControllerDeps) *Controller {
	c := &Controller{
		storage:    deps.Storage,
		settings:   deps.Settings,
		stats:      deps.Stats,
		sound:      deps.Sound,
		vibration:  deps.Vibration,
		notifier:   deps.Notifier,
		background: deps.Background,
		git:        deps.Git,
		bus:        deps.Bus,
		logger:     deps.Logger,
		clock:      deps.Clock,
		dispatch:   deps.Dispatch,
		workingDir: deps.WorkingDir,
		mode:       domain.ModeFocus,
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.clock == nil {
		c.clock = timer.SystemClock{}
	}
	if c.background == nil {
		c.background = background.Noop{}
	}
	if c.stats == nil {
		c.stats = NewStatisticsService(c.storage, c.settings)
		c.stats.SetClock(c.clock)
	}

	opts := []timer.Option{
		timer.WithClock(c.clock),
		timer.WithDispatcher(c.dispatch),
		timer.WithBackground(c.background),
	}
	if deps.ManualTicks || c.dispatch == nil {
		opts = append(opts, timer.WithInterval(0))
	}
	c.engine = timer.NewEngine(opts...)
	c.engine.OnTick(c.handleTick)
	c.engine.OnComplete(func() {
		c.finish(context.Background(), false)
	})
	return c
}

// Initialize resets the countdown for the current mode, pushes alarm
// settings down to the background layer and loads the dashboard.
func (c *Controller) Initialize(ctx context.Context) {
	st := c.settings.Settings()
	c.background.UpdateAlarmSettings(st.SoundEnabled, st.VibrationEnabled, st.VibrationDurationSeconds)
	c.engine.Reset(c.duration(c.mode))
	c.RefreshStats(ctx)
}

// Close stops the countdown and any pending alarm timer.
func (c *Controller) Close() {
	c.engine.Stop()
	c.cancelAlarmTimer()
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Mode returns the current mode.
func (c *Controller) Mode() domain.Mode { return c.mode }

// Remaining returns the last delivered remaining seconds.
func (c *Controller) Remaining() int { return c.remaining }

// Total returns the full length of the current mode's countdown.
func (c *Controller) Total() time.Duration { return c.duration(c.mode) }

// IsRinging reports whether the completion alarm is active.
func (c *Controller) IsRinging() bool { return c.ringing }

// CompletedFocusSessions returns the focus-cycle counter.
func (c *Controller) CompletedFocusSessions() int { return c.completedFocus }

// Dialog returns the completion dialog, or nil when none is shown.
func (c *Controller) Dialog() *CompletionDialog {
	if c.dialog == nil {
		return nil
	}
	d := *c.dialog
	return &d
}

// Session returns a copy of the open session, or nil.
func (c *Controller) Session() *domain.Session {
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Dashboard returns the figures computed by the last refresh.
func (c *Controller) Dashboard() Dashboard { return c.dashboard }

// StreakWarning reports whether an unacknowledged streak warning blocks Start.
func (c *Controller) StreakWarning() bool { return c.streakWarning }

// BreakSuggestion returns the suggestion for the current break, if any.
func (c *Controller) BreakSuggestion() string { return c.suggestion }

// Start begins a countdown for the current mode. It is a no-op unless the
// controller is idle and no guard blocks it.
func (c *Controller) Start(ctx context.Context) bool {
	if c.state != StateIdle {
		return false
	}
	c.dialog = nil
	c.stopAlarm()
	c.applyPending()
	return c.startGuarded(ctx)
}

// Toggle pauses a running countdown, resumes a paused one and starts an
// idle one.
func (c *Controller) Toggle(ctx context.Context) {
	switch c.state {
	case StateIdle:
		c.Start(ctx)
	case StateRunning:
		c.engine.Pause()
		c.remaining = c.engine.Remaining()
		c.state = StatePaused
		c.stopAlarm()
	case StatePaused:
		// Resume may complete synchronously when the target already passed.
		c.state = StateRunning
		c.engine.Resume()
	}
}

// Skip ends the current countdown as if it had completed, without an
// alarm, and starts the next mode.
func (c *Controller) Skip(ctx context.Context) {
	if c.state == StateIdle {
		return
	}
	c.finish(ctx, true)
}

// StartNewSession closes any open session, clears per-session state and
// resets the countdown without starting it.
func (c *Controller) StartNewSession(ctx context.Context) {
	c.engine.Stop()
	c.closeSession(ctx, c.clock.Now())
	c.state = StateIdle
	c.tasks = nil
	c.pendingNext = nil
	c.dialog = nil
	c.stopAlarm()
	c.clearFeatureState()
	c.retroPending = false
	c.retroSession = nil
	c.suggestion = ""
	c.engine.Reset(c.duration(c.mode))
}

// SetMode switches mode and resets the countdown. It is refused while
// running; a paused session is closed first.
func (c *Controller) SetMode(ctx context.Context, mode domain.Mode) bool {
	if c.state == StateRunning {
		return false
	}
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return false
	}
	if c.state == StatePaused {
		c.engine.Stop()
		c.closeSession(ctx, c.clock.Now())
		c.tasks = nil
		c.state = StateIdle
	}
	c.pendingNext = nil
	c.dialog = nil
	c.stopAlarm()
	c.mode = mode
	c.engine.Reset(c.duration(mode))
	return true
}

// DismissCompletion hides the completion dialog, silences the alarm and
// switches to the surfaced next mode.
func (c *Controller) DismissCompletion() {
	c.dialog = nil
	c.stopAlarm()
	if c.state == StateIdle {
		c.applyPending()
		c.engine.Reset(c.duration(c.mode))
	}
}

// Tick drives the countdown when the host runs with manual ticks.
func (c *Controller) Tick() {
	c.engine.Tick()
}

// SyncWithWallClock corrects the countdown after the host was suspended.
func (c *Controller) SyncWithWallClock() int {
	rem := c.engine.SyncWithWallClock()
	if c.state == StateRunning {
		c.remaining = rem
	}
	return rem
}

// IsDailyQuotaExceeded reports whether today's focus minutes reached the
// configured quota. A zero quota never blocks.
func (c *Controller) IsDailyQuotaExceeded(ctx context.Context) bool {
	quota := c.settings.Settings().DailyFocusQuotaMinutes
	if quota <= 0 {
		return false
	}
	minutes, err := c.stats.GetFocusMinutesToday(ctx)
	if err != nil {
		c.logger.Warn("failed to read focus minutes", "error", err)
		return false
	}
	return minutes >= float64(quota)
}

// RefreshStats reloads the dashboard and re-evaluates the streak warning.
func (c *Controller) RefreshStats(ctx context.Context) {
	dash, err := c.stats.GetDashboard(ctx)
	if err != nil {
		c.logger.Warn("failed to refresh statistics", "error", err)
		return
	}
	c.dashboard = dash

	st := c.settings.Settings()
	switch {
	case dash.CompletedToday || !st.StreakProtection || dash.Streak.Current == 0:
		c.streakWarning = false
	case !c.streakAcknowledged:
		c.streakWarning = true
	}
	c.publish(event.NewStatsRefreshedEvent(c.clock.Now(), dash.Today, dash.Streak))
}

// AcknowledgeStreakWarning clears the streak warning for this run.
func (c *Controller) AcknowledgeStreakWarning() {
	c.streakWarning = false
	c.streakAcknowledged = true
}

func (c *Controller) startGuarded(ctx context.Context) bool {
	if c.streakWarning {
		c.logger.Info("start blocked by streak warning")
		return false
	}
	if c.mode == domain.ModeFocus && c.IsDailyQuotaExceeded(ctx) {
		c.logger.Info("start blocked by daily quota")
		return false
	}
	c.begin(ctx)
	return true
}

func (c *Controller) begin(ctx context.Context) {
	now := c.clock.Now()

	if c.session != nil && !c.timed {
		c.session.Mode = c.mode
		c.session.StartTime = now
		c.persistSession(ctx, c.session)
	} else {
		c.closeSession(ctx, now)
		c.openSession(ctx, now)
	}

	c.clearFeatureState()
	if c.mode == domain.ModeFocus {
		c.suggestion = ""
	}
	c.tagFromGitBranch(ctx)
	c.carryOverTasks(ctx)

	c.timed = true
	c.state = StateRunning
	d := c.duration(c.mode)
	c.remaining = int(d / time.Second)
	c.engine.Start(d)
	c.publish(event.NewSessionStartedEvent(now, c.session.ID, c.mode))
}

// finish runs the shared completion and skip logic.
func (c *Controller) finish(ctx context.Context, skipped bool) {
	if c.state == StateIdle {
		return
	}
	now := c.clock.Now()
	completed := c.mode
	st := c.settings.Settings()
	c.engine.Stop()

	byPlatform := false
	if !skipped {
		c.ringing = true
		byPlatform = c.background.CompletionAlarmStartedByPlatform()
		if !byPlatform {
			c.ringAlarm(st)
		}
		c.background.ClearAlarmFlag()
		c.scheduleAlarmStop(st.AlarmDuration())
	}

	if completed == domain.ModeFocus {
		c.completedFocus++
		c.incrementActualPomodoros(ctx)
		if c.session != nil {
			c.lastFocusSessionID = c.session.ID
		}
		if st.BreakSuggestions {
			c.suggestion = breakSuggestions[c.suggestionIdx%len(breakSuggestions)]
			c.suggestionIdx++
		}
	}

	next := domain.NextMode(completed, c.completedFocus, st.PomodorosBeforeLongBreak)
	closed := c.closeSession(ctx, now)
	c.lastCompletedMode = completed
	c.state = StateIdle
	c.remaining = 0
	c.pendingNext = &next

	if !skipped {
		title := TitleFocusCompleted
		if completed.IsBreak() {
			title = TitleBreakCompleted
		}
		c.dialog = &CompletionDialog{
			Title:   title,
			Message: fmt.Sprintf("Next up: %s", next.Label()),
			Next:    next,
		}
		if st.RetrospectivePrompts && closed != nil {
			c.retroPending = true
			c.retroSession = closed
		}
		c.notify(ctx, title, c.dialog.Message)
	}

	c.publish(event.NewTimerCompletedEvent(now, completed, next, skipped, byPlatform))
	c.RefreshStats(ctx)

	autoStart := (next.IsBreak() && st.AutoStartBreaks) || (next == domain.ModeFocus && st.AutoStartPomodoros)
	if skipped || autoStart {
		c.applyPending()
		if !c.startGuarded(ctx) {
			c.engine.Reset(c.duration(c.mode))
		}
	}
}

func (c *Controller) handleTick(remaining int) {
	c.remaining = remaining
	if c.state != StateRunning {
		return
	}
	c.publish(event.NewTickEvent(c.clock.Now(), c.mode, remaining))

	if remaining == 60 && !c.oneMinuteWarned && c.settings.Settings().OneMinuteWarning {
		c.oneMinuteWarned = true
		c.notify(context.Background(), "One minute left", fmt.Sprintf("%s ends in one minute", c.mode.Label()))
		c.publish(event.NewOneMinuteWarningEvent(c.clock.Now(), c.mode))
	}
}

func (c *Controller) applyPending() {
	if c.pendingNext == nil {
		return
	}
	c.mode = *c.pendingNext
	c.pendingNext = nil
	c.engine.Reset(c.duration(c.mode))
}

func (c *Controller) duration(mode domain.Mode) time.Duration {
	return c.settings.Settings().Durations.For(mode)
}

func (c *Controller) openSession(ctx context.Context, now time.Time) {
	id := domain.NewSessionID()
	session, err := c.storage.Sessions().CreateSession(ctx, id, c.mode, now)
	if err != nil || session == nil {
		c.logger.Warn("failed to create session", "session", id, "error", err)
		session = domain.NewSession(id, c.mode, now)
	}
	c.session = session
	c.timed = false
	c.tasks = nil
}

// ensureSession opens an untimed session so tasks can be added while idle.
func (c *Controller) ensureSession(ctx context.Context) {
	if c.session != nil {
		return
	}
	c.openSession(ctx, c.clock.Now())
}

// closeSession ends the open session and returns it.
func (c *Controller) closeSession(ctx context.Context, now time.Time) *domain.Session {
	if c.session == nil {
		return nil
	}
	s := c.session
	s.Close(now)
	c.session = nil
	c.timed = false

	closed, err := c.storage.Sessions().CloseSession(ctx, s.ID, *s.EndTime)
	if err != nil {
		c.logger.Warn("failed to close session", "session", s.ID, "error", err)
	}
	if closed == nil {
		closed = s
	}
	c.publish(event.NewSessionClosedEvent(now, s.ID, s.Mode))
	return closed
}

func (c *Controller) persistSession(ctx context.Context, s *domain.Session) {
	if _, err := c.storage.Sessions().UpdateSession(ctx, s); err != nil {
		c.logger.Warn("failed to update session", "session", s.ID, "error", err)
	}
}

func (c *Controller) clearFeatureState() {
	c.oneMinuteWarned = false
	if c.session == nil {
		return
	}
	c.session.Tag = ""
	c.session.Distractions = 0
	c.session.Rating = nil
	c.session.Note = ""
}

func (c *Controller) tagFromGitBranch(ctx context.Context) {
	if !c.settings.Settings().TagFromGitBranch || c.git == nil || c.session.Tag != "" {
		return
	}
	if !c.git.IsAvailable() {
		return
	}
	info, err := c.git.Detect(ctx, c.workingDir)
	if err != nil || info == nil || info.Branch == "" {
		return
	}
	c.session.Tag = info.Branch
	c.persistSession(ctx, c.session)
}

// carryOverTasks re-creates the incomplete tasks of the last focus session
// when a focus session follows a break.
func (c *Controller) carryOverTasks(ctx context.Context) {
	if !c.settings.Settings().CarryOverIncompleteTasks {
		return
	}
	if c.mode != domain.ModeFocus || !c.lastCompletedMode.IsBreak() || c.lastFocusSessionID == "" {
		return
	}
	previous, err := c.storage.Tasks().GetBySession(ctx, c.lastFocusSessionID)
	if err != nil {
		c.logger.Warn("failed to load tasks to carry over", "session", c.lastFocusSessionID, "error", err)
		return
	}
	for _, t := range previous {
		if !t.Completed {
			c.addTask(ctx, t.Text)
		}
	}
}

func (c *Controller) incrementActualPomodoros(ctx context.Context) {
	for _, t := range c.tasks {
		if t.Completed {
			continue
		}
		t.ActualPomodoros++
		c.persistTask(ctx, t)
	}
}

func (c *Controller) notify(ctx context.Context, title, body string) {
	if c.notifier == nil || !c.settings.Settings().NotificationsEnabled {
		return
	}
	if err := c.notifier.ShowNotification(ctx, title, body); err != nil {
		c.logger.Warn("failed to show notification", "title", title, "error", err)
	}
}

func (c *Controller) publish(e event.Event) {
	c.bus.Publish(e)
}
