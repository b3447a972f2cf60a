package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/ports"
)

var _ ports.SettingsService = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return store
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	store := newTestStore(t)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}

	s := store.Settings()
	if s.Durations.Focus != 25*time.Minute {
		t.Errorf("expected 25m focus, got %v", s.Durations.Focus)
	}
	if s.PomodorosBeforeLongBreak != 4 {
		t.Errorf("expected cadence 4, got %d", s.PomodorosBeforeLongBreak)
	}
	if s.Goals != domain.DefaultGoals() {
		t.Errorf("expected default goals, got %+v", s.Goals)
	}
	if !s.SoundEnabled || s.DailyFocusQuotaMinutes != 0 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if strings.HasPrefix(store.Config().Storage.DataDir, "~") {
		t.Errorf("data dir should be expanded, got %q", store.Config().Storage.DataDir)
	}
}

func TestUpdateAndSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	store.Update(func(s *domain.Settings) {
		s.Durations.Focus = 50 * time.Minute
		s.DailyFocusQuotaMinutes = 240
		s.StreakProtection = true
		s.Goals.DailyMinutes = 90
		s.Templates = append(s.Templates, domain.Template{
			Name: "Study", FocusMinutes: 40, ShortBreakMinutes: 8, LongBreakMinutes: 20, PomodorosBeforeLongBreak: 3,
		})
	})
	if err := store.Save(ctx); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := NewStore(store.Path())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	s := reloaded.Settings()
	if s.Durations.Focus != 50*time.Minute {
		t.Errorf("expected 50m focus, got %v", s.Durations.Focus)
	}
	if s.DailyFocusQuotaMinutes != 240 || !s.StreakProtection || s.Goals.DailyMinutes != 90 {
		t.Errorf("settings not persisted: %+v", s)
	}
	if len(s.Templates) != 1 || s.Templates[0].Name != "Study" || s.Templates[0].FocusMinutes != 40 {
		t.Errorf("templates not persisted: %+v", s.Templates)
	}
}

func TestSet_ParsesStringValues(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if err := store.Set(ctx, "pomodoro.short_break", "7m"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := store.Set(ctx, "features.carry_over_tasks", "true"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	s := store.Settings()
	if s.Durations.ShortBreak != 7*time.Minute {
		t.Errorf("expected 7m short break, got %v", s.Durations.ShortBreak)
	}
	if !s.CarryOverIncompleteTasks {
		t.Error("expected carry-over to be enabled")
	}

	if err := store.Set(ctx, "nope.key", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1h30m")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if time.Duration(d) != 90*time.Minute {
		t.Errorf("expected 90m, got %v", d)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandHome("~/.tempo")
	if err != nil {
		t.Fatalf("expandHome() error: %v", err)
	}
	if got != filepath.Join(home, ".tempo") {
		t.Errorf("unexpected expansion %q", got)
	}
	if got, _ := expandHome("/var/lib/tempo"); got != "/var/lib/tempo" {
		t.Errorf("absolute path should be unchanged, got %q", got)
	}
}
