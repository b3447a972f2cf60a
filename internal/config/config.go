// Package config provides configuration management for tempo.
// Settings live in a TOML file read and written through a private viper instance.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/xvierd/tempo/internal/domain"
)

// Config holds all configuration for the tempo application.
type Config struct {
	Pomodoro      PomodoroConfig     `mapstructure:"pomodoro"`
	Alarm         AlarmConfig        `mapstructure:"alarm"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Features      FeatureConfig      `mapstructure:"features"`
	Goals         GoalConfig         `mapstructure:"goals"`
	Templates     []TemplateConfig   `mapstructure:"templates"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Server        ServerConfig       `mapstructure:"server"`
}

// PomodoroConfig holds timer durations and cadence.
type PomodoroConfig struct {
	FocusDuration      Duration `mapstructure:"focus_duration"`
	ShortBreak         Duration `mapstructure:"short_break"`
	LongBreak          Duration `mapstructure:"long_break"`
	SessionsBeforeLong int      `mapstructure:"sessions_before_long"`
	AutoStartBreaks    bool     `mapstructure:"auto_start_breaks"`
	AutoStartPomodoros bool     `mapstructure:"auto_start_pomodoros"`
}

// AlarmConfig holds completion alarm settings.
type AlarmConfig struct {
	Sound            bool `mapstructure:"sound"`
	Vibration        bool `mapstructure:"vibration"`
	VibrationSeconds int  `mapstructure:"vibration_seconds"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	OneMinuteWarning bool `mapstructure:"one_minute_warning"`
}

// FeatureConfig holds the optional behaviours layered on the timer.
type FeatureConfig struct {
	StreakProtection     bool `mapstructure:"streak_protection"`
	DailyQuotaMinutes    int  `mapstructure:"daily_quota_minutes"`
	BreakSuggestions     bool `mapstructure:"break_suggestions"`
	RetrospectivePrompts bool `mapstructure:"retrospective_prompts"`
	CarryOverTasks       bool `mapstructure:"carry_over_tasks"`
	GitBranchTag         bool `mapstructure:"git_branch_tag"`
}

// GoalConfig holds focus-minute targets.
type GoalConfig struct {
	DailyMinutes   int `mapstructure:"daily_minutes"`
	WeeklyMinutes  int `mapstructure:"weekly_minutes"`
	MonthlyMinutes int `mapstructure:"monthly_minutes"`
}

// TemplateConfig is a user-defined pomodoro template.
type TemplateConfig struct {
	Name                     string `mapstructure:"name"`
	FocusMinutes             int    `mapstructure:"focus_minutes"`
	ShortBreakMinutes        int    `mapstructure:"short_break_minutes"`
	LongBreakMinutes         int    `mapstructure:"long_break_minutes"`
	PomodorosBeforeLongBreak int    `mapstructure:"pomodoros_before_long_break"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds the stats HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.tempo"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	settings := domain.DefaultSettings()
	cfg := fromSettings(settings)
	cfg.Storage = StorageConfig{DataDir: defaultDataDir}
	cfg.Logging = LoggingConfig{Level: "info"}
	cfg.Server = ServerConfig{Addr: "127.0.0.1:7420"}
	return cfg
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tempo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "tempo.db")
}

// Store is the viper-backed settings service.
type Store struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
	cfg  *Config
}

// NewStore creates a store for the TOML file at path. An empty path uses
// ~/.tempo/config.toml.
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)
	return &Store{v: v, path: path, cfg: DefaultConfig()}, nil
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// Load reads the config file, writing one with defaults when it is missing.
func (s *Store) Load(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.writeLocked(DefaultConfig()); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := s.v.Unmarshal(&cfg, hook); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	cfg.Storage.DataDir = dataDir
	s.cfg = &cfg
	return nil
}

// Save writes the current configuration to disk.
func (s *Store) Save(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(s.cfg)
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toSettings(s.cfg)
}

// Update mutates the settings in memory. Call Save to persist.
func (s *Store) Update(fn func(*domain.Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := toSettings(s.cfg)
	fn(&settings)
	next := fromSettings(settings)
	next.Storage = s.cfg.Storage
	next.Logging = s.cfg.Logging
	next.Server = s.cfg.Server
	s.cfg = next
}

// Config returns a copy of the full configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := *s.cfg
	cfg.Templates = append([]TemplateConfig(nil), s.cfg.Templates...)
	return cfg
}

// Get returns the raw value of a dotted key such as "pomodoro.focus_duration".
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.v.IsSet(key) {
		return nil, false
	}
	return s.v.Get(key), true
}

// Keys lists every known configuration key.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.AllKeys()
}

// Set updates one dotted key from its string form, writes the file and reloads.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	known := false
	for _, k := range s.v.AllKeys() {
		if k == strings.ToLower(key) {
			known = true
			break
		}
	}
	if !known {
		s.mu.Unlock()
		return fmt.Errorf("unknown config key %q", key)
	}
	s.v.Set(key, value)
	err := s.v.WriteConfig()
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return s.Load(ctx)
}

// writeLocked pushes cfg into viper and writes the file.
func (s *Store) writeLocked(cfg *Config) error {
	v := s.v
	v.Set("pomodoro.focus_duration", cfg.Pomodoro.FocusDuration.String())
	v.Set("pomodoro.short_break", cfg.Pomodoro.ShortBreak.String())
	v.Set("pomodoro.long_break", cfg.Pomodoro.LongBreak.String())
	v.Set("pomodoro.sessions_before_long", cfg.Pomodoro.SessionsBeforeLong)
	v.Set("pomodoro.auto_start_breaks", cfg.Pomodoro.AutoStartBreaks)
	v.Set("pomodoro.auto_start_pomodoros", cfg.Pomodoro.AutoStartPomodoros)
	v.Set("alarm.sound", cfg.Alarm.Sound)
	v.Set("alarm.vibration", cfg.Alarm.Vibration)
	v.Set("alarm.vibration_seconds", cfg.Alarm.VibrationSeconds)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.one_minute_warning", cfg.Notifications.OneMinuteWarning)
	v.Set("features.streak_protection", cfg.Features.StreakProtection)
	v.Set("features.daily_quota_minutes", cfg.Features.DailyQuotaMinutes)
	v.Set("features.break_suggestions", cfg.Features.BreakSuggestions)
	v.Set("features.retrospective_prompts", cfg.Features.RetrospectivePrompts)
	v.Set("features.carry_over_tasks", cfg.Features.CarryOverTasks)
	v.Set("features.git_branch_tag", cfg.Features.GitBranchTag)
	v.Set("goals.daily_minutes", cfg.Goals.DailyMinutes)
	v.Set("goals.weekly_minutes", cfg.Goals.WeeklyMinutes)
	v.Set("goals.monthly_minutes", cfg.Goals.MonthlyMinutes)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("server.addr", cfg.Server.Addr)

	templates := make([]map[string]any, 0, len(cfg.Templates))
	for _, t := range cfg.Templates {
		templates = append(templates, map[string]any{
			"name":                        t.Name,
			"focus_minutes":               t.FocusMinutes,
			"short_break_minutes":         t.ShortBreakMinutes,
			"long_break_minutes":          t.LongBreakMinutes,
			"pomodoros_before_long_break": t.PomodorosBeforeLongBreak,
		})
	}
	v.Set("templates", templates)

	return v.WriteConfig()
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("pomodoro.focus_duration", d.Pomodoro.FocusDuration.String())
	v.SetDefault("pomodoro.short_break", d.Pomodoro.ShortBreak.String())
	v.SetDefault("pomodoro.long_break", d.Pomodoro.LongBreak.String())
	v.SetDefault("pomodoro.sessions_before_long", d.Pomodoro.SessionsBeforeLong)
	v.SetDefault("pomodoro.auto_start_breaks", false)
	v.SetDefault("pomodoro.auto_start_pomodoros", false)
	v.SetDefault("alarm.sound", true)
	v.SetDefault("alarm.vibration", true)
	v.SetDefault("alarm.vibration_seconds", d.Alarm.VibrationSeconds)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.one_minute_warning", false)
	v.SetDefault("features.streak_protection", false)
	v.SetDefault("features.daily_quota_minutes", 0)
	v.SetDefault("features.break_suggestions", false)
	v.SetDefault("features.retrospective_prompts", false)
	v.SetDefault("features.carry_over_tasks", false)
	v.SetDefault("features.git_branch_tag", false)
	v.SetDefault("goals.daily_minutes", d.Goals.DailyMinutes)
	v.SetDefault("goals.weekly_minutes", d.Goals.WeeklyMinutes)
	v.SetDefault("goals.monthly_minutes", d.Goals.MonthlyMinutes)
	v.SetDefault("storage.data_dir", defaultDataDir)
	v.SetDefault("logging.level", "info")
	v.SetDefault("server.addr", d.Server.Addr)
}

func toSettings(cfg *Config) domain.Settings {
	s := domain.Settings{
		Durations: domain.Durations{
			Focus:      time.Duration(cfg.Pomodoro.FocusDuration),
			ShortBreak: time.Duration(cfg.Pomodoro.ShortBreak),
			LongBreak:  time.Duration(cfg.Pomodoro.LongBreak),
		},
		PomodorosBeforeLongBreak: cfg.Pomodoro.SessionsBeforeLong,
		AutoStartBreaks:          cfg.Pomodoro.AutoStartBreaks,
		AutoStartPomodoros:       cfg.Pomodoro.AutoStartPomodoros,
		SoundEnabled:             cfg.Alarm.Sound,
		VibrationEnabled:         cfg.Alarm.Vibration,
		VibrationDurationSeconds: cfg.Alarm.VibrationSeconds,
		NotificationsEnabled:     cfg.Notifications.Enabled,
		OneMinuteWarning:         cfg.Notifications.OneMinuteWarning,
		StreakProtection:         cfg.Features.StreakProtection,
		DailyFocusQuotaMinutes:   cfg.Features.DailyQuotaMinutes,
		BreakSuggestions:         cfg.Features.BreakSuggestions,
		RetrospectivePrompts:     cfg.Features.RetrospectivePrompts,
		CarryOverIncompleteTasks: cfg.Features.CarryOverTasks,
		TagFromGitBranch:         cfg.Features.GitBranchTag,
		Goals: domain.Goals{
			DailyMinutes:   cfg.Goals.DailyMinutes,
			WeeklyMinutes:  cfg.Goals.WeeklyMinutes,
			MonthlyMinutes: cfg.Goals.MonthlyMinutes,
		},
	}
	for _, t := range cfg.Templates {
		s.Templates = append(s.Templates, domain.Template{
			Name:                     t.Name,
			FocusMinutes:             t.FocusMinutes,
			ShortBreakMinutes:        t.ShortBreakMinutes,
			LongBreakMinutes:         t.LongBreakMinutes,
			PomodorosBeforeLongBreak: t.PomodorosBeforeLongBreak,
		})
	}
	return s
}

func fromSettings(s domain.Settings) *Config {
	cfg := &Config{
		Pomodoro: PomodoroConfig{
			FocusDuration:      Duration(s.Durations.Focus),
			ShortBreak:         Duration(s.Durations.ShortBreak),
			LongBreak:          Duration(s.Durations.LongBreak),
			SessionsBeforeLong: s.PomodorosBeforeLongBreak,
			AutoStartBreaks:    s.AutoStartBreaks,
			AutoStartPomodoros: s.AutoStartPomodoros,
		},
		Alarm: AlarmConfig{
			Sound:            s.SoundEnabled,
			Vibration:        s.VibrationEnabled,
			VibrationSeconds: s.VibrationDurationSeconds,
		},
		Notifications: NotificationConfig{
			Enabled:          s.NotificationsEnabled,
			OneMinuteWarning: s.OneMinuteWarning,
		},
		Features: FeatureConfig{
			StreakProtection:     s.StreakProtection,
			DailyQuotaMinutes:    s.DailyFocusQuotaMinutes,
			BreakSuggestions:     s.BreakSuggestions,
			RetrospectivePrompts: s.RetrospectivePrompts,
			CarryOverTasks:       s.CarryOverIncompleteTasks,
			GitBranchTag:         s.TagFromGitBranch,
		},
		Goals: GoalConfig{
			DailyMinutes:   s.Goals.DailyMinutes,
			WeeklyMinutes:  s.Goals.WeeklyMinutes,
			MonthlyMinutes: s.Goals.MonthlyMinutes,
		},
	}
	for _, t := range s.Templates {
		cfg.Templates = append(cfg.Templates, TemplateConfig{
			Name:                     t.Name,
			FocusMinutes:             t.FocusMinutes,
			ShortBreakMinutes:        t.ShortBreakMinutes,
			LongBreakMinutes:         t.LongBreakMinutes,
			PomodorosBeforeLongBreak: t.PomodorosBeforeLongBreak,
		})
	}
	return cfg
}

// expandHome resolves a leading ~ against the user's home directory.
func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}
