package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xvierd/tempo/internal/adapters/storage"
	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/ports"
	"github.com/xvierd/tempo/internal/timer"
)

var errStore = errors.New("store unavailable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 18, 10, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memSettings struct {
	st    domain.Settings
	saves int
}

func (m *memSettings) Load(context.Context) error { return nil }
func (m *memSettings) Save(context.Context) error {
	m.saves++
	return nil
}
func (m *memSettings) Settings() domain.Settings { return m.st }
func (m *memSettings) Update(fn func(*domain.Settings)) { fn(&m.st) }

type recordingSound struct {
	plays int
	stops int
}

func (s *recordingSound) PlayNotificationSound() { s.plays++ }
func (s *recordingSound) StopNotificationSound() { s.stops++ }
func (s *recordingSound) IsSupported() bool { return true }

type recordingVibration struct {
	patterns [][]time.Duration
	cancels  int
}

func (v *recordingVibration) VibratePattern(p []time.Duration, repeat int) {
	v.patterns = append(v.patterns, p)
}
func (v *recordingVibration) Cancel() { v.cancels++ }
func (v *recordingVibration) IsSupported() bool { return true }

type recordingNotifier struct {
	titles []string
}

func (n *recordingNotifier) ShowNotification(ctx context.Context, title, body string) error {
	n.titles = append(n.titles, title)
	return nil
}

type fakeBackground struct {
	platformAlarm bool
	cleared       int
	pushes        int
}

func (b *fakeBackground) StartTracking(time.Time) {}
func (b *fakeBackground) StopTracking() {}
func (b *fakeBackground) UpdateRemaining(int) {}
func (b *fakeBackground) CompletionAlarmStartedByPlatform() bool { return b.platformAlarm }
func (b *fakeBackground) ClearAlarmFlag() {
	b.cleared++
	b.platformAlarm = false
}
func (b *fakeBackground) UpdateAlarmSettings(bool, bool, int) { b.pushes++ }

type fakeGit struct {
	branch string
}

func (g fakeGit) Detect(ctx context.Context, dir string) (*ports.GitInfo, error) {
	return &ports.GitInfo{Branch: g.branch}, nil
}
func (g fakeGit) IsAvailable() bool { return true }

// countingTasks records the write calls reaching the task repository.
type countingTasks struct {
	ports.TaskRepository
	toggles int
	updates int
}

func (r *countingTasks) ToggleCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error) {
	r.toggles++
	return r.TaskRepository.ToggleCompleted(ctx, id, completed)
}

func (r *countingTasks) UpdateTask(ctx context.Context, t *domain.Task) (bool, error) {
	r.updates++
	return r.TaskRepository.UpdateTask(ctx, t)
}

type spyStorage struct {
	ports.Storage
	tasks *countingTasks
}

func (s *spyStorage) Tasks() ports.TaskRepository { return s.tasks }

type failingSessions struct {
	ports.SessionRepository
}

func (failingSessions) CreateSession(context.Context, string, domain.Mode, time.Time) (*domain.Session, error) {
	return nil, errStore
}
func (failingSessions) CloseSession(context.Context, string, time.Time) (*domain.Session, error) {
	return nil, errStore
}
func (failingSessions) UpdateSession(context.Context, *domain.Session) (bool, error) {
	return false, errStore
}
func (failingSessions) GetSessionsWithStats(context.Context) ([]*domain.Session, error) {
	return nil, errStore
}
func (failingSessions) GetAllSessions(context.Context) ([]*domain.Session, error) {
	return nil, errStore
}

type failingTasks struct {
	ports.TaskRepository
}

func (failingTasks) Add(context.Context, string, string) (*domain.Task, error) {
	return nil, errStore
}
func (failingTasks) ToggleCompleted(context.Context, int64, bool) (*domain.Task, error) {
	return nil, errStore
}
func (failingTasks) UpdateTask(context.Context, *domain.Task) (bool, error) {
	return false, errStore
}
func (failingTasks) Delete(context.Context, int64) error { return errStore }
func (failingTasks) GetBySession(context.Context, string) ([]*domain.Task, error) {
	return nil, errStore
}
func (failingTasks) GetAllTasks(context.Context) ([]*domain.Task, error) {
	return nil, errStore
}

type failingStorage struct{}

func (failingStorage) Tasks() ports.TaskRepository { return failingTasks{} }
func (failingStorage) Sessions() ports.SessionRepository { return failingSessions{} }
func (failingStorage) Close() error { return nil }
func (failingStorage) Migrate() error { return nil }

type harness struct {
	c         *Controller
	store     ports.Storage
	tasks     *countingTasks
	clock     *fakeClock
	settings  *memSettings
	sound     *recordingSound
	vibration *recordingVibration
	notifier  *recordingNotifier
	bg        *fakeBackground
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	settings func(*domain.Settings)
	seed     func(ports.Storage, *fakeClock)
	git      ports.GitDetector
	dispatch timer.Dispatcher
	failing  bool
}

func withSettings(fn func(*domain.Settings)) harnessOption {
	return func(c *harnessConfig) { c.settings = fn }
}

func withHistory(fn func(ports.Storage, *fakeClock)) harnessOption {
	return func(c *harnessConfig) { c.seed = fn }
}

func withGit(g ports.GitDetector) harnessOption {
	return func(c *harnessConfig) { c.git = g }
}

func withDispatcher(d timer.Dispatcher) harnessOption {
	return func(c *harnessConfig) { c.dispatch = d }
}

func withFailingStorage() harnessOption {
	return func(c *harnessConfig) { c.failing = true }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	cfg := &harnessConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	h := &harness{
		clock:     newFakeClock(),
		settings:  &memSettings{st: domain.DefaultSettings()},
		sound:     &recordingSound{},
		vibration: &recordingVibration{},
		notifier:  &recordingNotifier{},
		bg:        &fakeBackground{},
	}
	if cfg.settings != nil {
		cfg.settings(&h.settings.st)
	}

	if cfg.failing {
		h.store = failingStorage{}
	} else {
		store, err := storage.NewMemory()
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		if cfg.seed != nil {
			cfg.seed(store, h.clock)
		}
		h.tasks = &countingTasks{TaskRepository: store.Tasks()}
		h.store = &spyStorage{Storage: store, tasks: h.tasks}
	}

	h.c = NewController(ControllerDeps{
		Storage:     h.store,
		Settings:    h.settings,
		Sound:       h.sound,
		Vibration:   h.vibration,
		Notifier:    h.notifier,
		Background:  h.bg,
		Git:         cfg.git,
		Clock:       h.clock,
		Dispatch:    cfg.dispatch,
		ManualTicks: true,
	})
	h.c.Initialize(context.Background())
	t.Cleanup(h.c.Close)
	return h
}

// runOut advances the clock past the end of the countdown and ticks.
func (h *harness) runOut() {
	h.clock.Advance(time.Duration(h.c.Remaining()) * time.Second)
	h.c.Tick()
}

func (h *harness) completeFocus(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.True(t, h.c.SetMode(ctx, domain.ModeFocus))
	require.True(t, h.c.Start(ctx))
	h.runOut()
	h.c.DismissCompletion()
}

func seedClosedSession(t *testing.T, store ports.Storage, mode domain.Mode, start time.Time, minutes int) string {
	t.Helper()
	ctx := context.Background()
	id := domain.NewSessionID()
	_, err := store.Sessions().CreateSession(ctx, id, mode, start)
	require.NoError(t, err)
	_, err = store.Sessions().CloseSession(ctx, id, start.Add(time.Duration(minutes)*time.Minute))
	require.NoError(t, err)
	return id
}
