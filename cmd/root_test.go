package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/adapters/storage"
	"github.com/xvierd/tempo/internal/domain"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

type testEnv struct {
	dir    string
	db     string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir:    dir,
		db:     filepath.Join(dir, "tempo.db"),
		config: filepath.Join(dir, "config.toml"),
	}
}

// run executes tempo against the environment's database and config.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	dbPath = ""
	configPath = ""

	full := append([]string{"--db", e.db, "--config", e.config}, args...)
	stdout, _, err := executeCmd(rootCmd, full...)
	// PersistentPostRunE is skipped when RunE fails
	_ = cleanupServices()
	return stdout, err
}

// seed writes a closed focus session with tasks straight into the database.
func (e *testEnv) seed(t *testing.T, id string, tasks ...string) []*domain.Task {
	t.Helper()
	ctx := context.Background()
	store, err := storage.New(e.db)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer store.Close()

	start := time.Now().Add(-30 * time.Minute)
	if _, err := store.Sessions().CreateSession(ctx, id, domain.ModeFocus, start); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := store.Sessions().CloseSession(ctx, id, start.Add(25*time.Minute)); err != nil {
		t.Fatalf("CloseSession() error = %v", err)
	}

	out := make([]*domain.Task, 0, len(tasks))
	for _, text := range tasks {
		task, err := store.Tasks().Add(ctx, text, id)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		out = append(out, task)
	}
	return out
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("invalid JSON output %q: %v", s, err)
	}
	return out
}

func TestRootCmd_Structure(t *testing.T) {
	if rootCmd.Use != "tempo" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "tempo")
	}

	want := []string{"run", "start", "status", "tasks", "sessions", "stats", "export", "goals", "templates", "config", "mcp", "serve"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q is not registered", name)
		}
	}
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := executeCmd(rootCmd, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	if !strings.Contains(stdout, "tempo") {
		t.Error("help output should mention tempo")
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"db", "config", "json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}
}

func TestStatusCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(out, "No sessions yet") {
		t.Errorf("status on empty history = %q", out)
	}

	env.seed(t, "11111111-aaaa", "write docs")
	out, err = env.run(t, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(out, "Last: Focus 11111111") {
		t.Errorf("status output = %q, want last focus session", out)
	}

	out, err = env.run(t, "--json", "status")
	if err != nil {
		t.Fatalf("status --json error = %v", err)
	}
	data := decodeJSON(t, out)
	last, ok := data["last_session"].(map[string]any)
	if !ok || last["id"] != "11111111-aaaa" {
		t.Errorf("last_session = %v", data["last_session"])
	}
}

func TestTasksCmd(t *testing.T) {
	env := newTestEnv(t)
	tasks := env.seed(t, "s-1", "fix login bug", "write blog post", "fix flaky test")
	id := func(i int) string { return strconv.FormatInt(tasks[i].ID, 10) }

	out, err := env.run(t, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list error = %v", err)
	}
	if !strings.Contains(out, "Tasks (3)") {
		t.Errorf("tasks list = %q", out)
	}

	if _, err := env.run(t, "tasks", "done", id(1)); err != nil {
		t.Fatalf("tasks done error = %v", err)
	}
	out, err = env.run(t, "--json", "tasks", "list", "--pending")
	if err != nil {
		t.Fatalf("tasks list --pending error = %v", err)
	}
	if got := decodeJSON(t, out)["count"]; got != float64(2) {
		t.Errorf("pending count = %v, want 2", got)
	}

	out, err = env.run(t, "tasks", "search", "fix")
	if err != nil {
		t.Fatalf("tasks search error = %v", err)
	}
	if !strings.Contains(out, "Tasks (2)") || strings.Contains(out, "blog") {
		t.Errorf("tasks search = %q", out)
	}

	if _, err := env.run(t, "tasks", "delete", id(0)); err != nil {
		t.Fatalf("tasks delete error = %v", err)
	}
	if _, err := env.run(t, "tasks", "delete", id(0)); err == nil {
		t.Error("deleting a missing task should fail")
	}
	if _, err := env.run(t, "tasks", "done", "abc"); err == nil {
		t.Error("a non-numeric task id should fail")
	}
	// reset the pending flag for later tests
	tasksPending = false
}

func TestSessionsCmd(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "aaaaaaaa-1111", "a")

	out, err := env.run(t, "sessions", "recent", "--limit", "5")
	if err != nil {
		t.Fatalf("sessions recent error = %v", err)
	}
	if !strings.Contains(out, "aaaaaaaa") || !strings.Contains(out, "0/1 tasks") {
		t.Errorf("sessions recent = %q", out)
	}

	if _, err := env.run(t, "sessions", "recent", "--limit", "0"); err == nil {
		t.Error("a zero limit should fail")
	}
	sessionsLimit = 10

	if _, err := env.run(t, "sessions", "delete", "aaaaaaaa-1111"); err != nil {
		t.Fatalf("sessions delete error = %v", err)
	}
	_, err = env.run(t, "sessions", "delete", "aaaaaaaa-1111")
	if err == nil || !strings.Contains(err.Error(), domain.ErrSessionNotFound.Error()) {
		t.Errorf("second delete error = %v, want %v", err, domain.ErrSessionNotFound)
	}

	out, err = env.run(t, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list error = %v", err)
	}
	if !strings.Contains(out, "Tasks (1)") {
		t.Errorf("tasks should survive session deletion, got %q", out)
	}
}

func TestGoalsCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "goals", "set", "--daily", "90")
	if err != nil {
		t.Fatalf("goals set error = %v", err)
	}
	if !strings.Contains(out, "daily 90") {
		t.Errorf("goals set = %q", out)
	}

	out, err = env.run(t, "--json", "goals")
	if err != nil {
		t.Fatalf("goals error = %v", err)
	}
	goals, ok := decodeJSON(t, out)["goals"].([]any)
	if !ok || len(goals) != 3 {
		t.Fatalf("goals = %v", out)
	}
	if daily := goals[0].(map[string]any); daily["target_minutes"] != float64(90) {
		t.Errorf("daily goal = %v, want 90", daily["target_minutes"])
	}

	if _, err := env.run(t, "goals", "set", "--daily", "0"); err == nil {
		t.Error("a zero goal should be rejected")
	}
}

func TestConfigCmd(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "config", "set", "pomodoro.short_break", "7m"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	out, err := env.run(t, "config", "get", "pomodoro.short_break")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "7m" {
		t.Errorf("config get = %q, want 7m", out)
	}

	if _, err := env.run(t, "config", "get", "nope.key"); err == nil {
		t.Error("unknown keys should fail")
	}

	out, err = env.run(t, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(out, env.config) || !strings.Contains(out, "pomodoro.focus_duration") {
		t.Errorf("config listing = %q", out)
	}
}

func TestTemplatesCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "templates")
	if err != nil {
		t.Fatalf("templates error = %v", err)
	}
	if !strings.Contains(out, "* Standard") || !strings.Contains(out, "Deep Work") {
		t.Errorf("templates = %q", out)
	}

	if _, err := env.run(t, "templates", "apply", "Deep Work"); err != nil {
		t.Fatalf("templates apply error = %v", err)
	}
	out, err = env.run(t, "templates")
	if err != nil {
		t.Fatalf("templates error = %v", err)
	}
	if !strings.Contains(out, "* Deep Work") {
		t.Errorf("Deep Work should be active, got %q", out)
	}

	if _, err := env.run(t, "templates", "apply", "Nope"); err == nil {
		t.Error("unknown templates should fail")
	}
}

func TestExportCmd(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "s-export", "ship it")

	out, err := env.run(t, "export", "--format", "csv")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(out, "\nsession_id,mode,start") || !strings.Contains(out, "ship it") {
		t.Errorf("csv export = %q", out)
	}

	file := filepath.Join(env.dir, "report.json")
	if _, err := env.run(t, "export", "--format", "json", "--output", file); err != nil {
		t.Fatalf("export to file error = %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !json.Valid(data) {
		t.Errorf("report is not valid JSON: %s", data)
	}
	exportOutput = ""

	_, err = env.run(t, "export", "--format", "pdf")
	if err == nil || !strings.Contains(err.Error(), domain.ErrUnsupportedFormat.Error()) {
		t.Errorf("pdf export error = %v, want %v", err, domain.ErrUnsupportedFormat)
	}
}

func TestStatsCmd(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "s-stats", "a")

	out, err := env.run(t, "stats", "--period", "monthly")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	if !strings.Contains(out, "Focus time, monthly") || !strings.Contains(out, "Streak:") {
		t.Errorf("stats dashboard = %q", out)
	}

	out, err = env.run(t, "--json", "stats", "--period", "weekly")
	if err != nil {
		t.Fatalf("stats --json error = %v", err)
	}
	data := decodeJSON(t, out)
	if data["period"] != "weekly" {
		t.Errorf("period = %v", data["period"])
	}

	if _, err := env.run(t, "stats", "--period", "yearly"); err == nil {
		t.Error("unknown periods should fail")
	}
	statsPeriod = "daily"
}

func TestStartCmd_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "start", "--mode", "nap"); err == nil {
		t.Error("unknown modes should fail")
	}
	startMode = string(domain.ModeFocus)

	if _, err := env.run(t, "start", "--template", "Nope"); err == nil {
		t.Error("unknown templates should fail")
	}
	startTemplate = ""
}

func TestStartCmd_RunsToCompletion(t *testing.T) {
	env := newTestEnv(t)
	cfg := `[pomodoro]
focus_duration = "1s"
auto_start_breaks = true

[alarm]
sound = false
vibration = false
vibration_seconds = 0

[notifications]
enabled = false

[storage]
data_dir = "` + filepath.ToSlash(env.dir) + `"
`
	if err := os.WriteFile(env.config, []byte(cfg), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	out, err := env.run(t, "start", "--tag", "ci")
	startTag = ""
	if err != nil {
		t.Fatalf("start error = %v", err)
	}
	if !strings.Contains(out, "Started Focus") || !strings.Contains(out, "Pomodoro Completed!") {
		t.Errorf("start output = %q", out)
	}

	store, err := storage.New(env.db)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer store.Close()
	sessions, err := store.Sessions().GetAllSessions(context.Background())
	if err != nil {
		t.Fatalf("GetAllSessions() error = %v", err)
	}
	if len(sessions) == 0 {
		t.Fatal("no session was recorded")
	}
	focus := 0
	for _, s := range sessions {
		if !s.IsClosed() {
			t.Errorf("session %s (%s) left open", s.ID, s.Mode)
		}
		if s.Mode == domain.ModeFocus {
			focus++
			if s.Tag != "ci" {
				t.Errorf("focus session tag = %q, want %q", s.Tag, "ci")
			}
		}
	}
	if focus != 1 {
		t.Errorf("recorded %d focus sessions, want 1", focus)
	}
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0m"},
		{0.5, "30m"},
		{2, "2h"},
		{1.25, "1h 15m"},
		{1.9999, "2h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.hours); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}

	if got := formatCountdown(1500); got != "25:00" {
		t.Errorf("formatCountdown(1500) = %q", got)
	}
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID() = %q", got)
	}
	if got := buildBar(3); got != "███" {
		t.Errorf("buildBar(3) = %q", got)
	}
}
