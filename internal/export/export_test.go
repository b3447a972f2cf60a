package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xvierd/tempo/internal/domain"
)

func sampleReport() domain.Report {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s := domain.NewSession("s1", domain.ModeFocus, start)
	s.Close(start.Add(25 * time.Minute))
	s.Tag = "api"
	s.SetRating(4)
	s.TotalTasks = 2
	s.CompletedTasks = 1

	done := &domain.Task{ID: 1, SessionID: "s1", Text: "write tests", Priority: domain.PriorityHigh}
	done.Complete(start.Add(10 * time.Minute))
	open := &domain.Task{ID: 2, SessionID: "s1", Text: "review, then merge", Priority: domain.PriorityNone}

	return domain.Report{
		GeneratedAt:           start.Add(time.Hour),
		TotalSessions:         1,
		CompletedTasks:        1,
		TotalFocusMinutes:     25,
		AverageSessionMinutes: 25,
		Sessions:              []*domain.Session{s},
		Tasks:                 []*domain.Task{done, open},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := Render(sampleReport(), "json")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.TotalSessions != 1 || doc.CompletedTasks != 1 {
		t.Errorf("unexpected totals: %+v", doc)
	}
	if len(doc.Sessions) != 1 || doc.Sessions[0].Minutes != 25 {
		t.Errorf("unexpected sessions: %+v", doc.Sessions)
	}
	if len(doc.Tasks) != 2 || doc.Tasks[0].CompletedAt == nil || doc.Tasks[1].CompletedAt != nil {
		t.Errorf("unexpected tasks: %+v", doc.Tasks)
	}
}

func TestRenderYAML(t *testing.T) {
	data, err := Render(sampleReport(), "yml")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if doc["total_sessions"] != 1 {
		t.Errorf("expected total_sessions 1, got %v", doc["total_sessions"])
	}
}

func TestRenderCSV(t *testing.T) {
	data, err := Render(sampleReport(), "CSV")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected totals, one session and two tasks with headers, got %d rows: %v", len(rows), rows)
	}

	if rows[0][0] != "generated_at" || rows[1][1] != "1" || rows[1][2] != "1" || rows[1][3] != "25" || rows[1][4] != "25.0" {
		t.Errorf("unexpected totals: %v %v", rows[0], rows[1])
	}
	if rows[2][0] != "session_id" {
		t.Errorf("unexpected session header: %v", rows[2])
	}
	if rows[3][1] != "focus" || rows[3][4] != "25" || rows[3][6] != "4" {
		t.Errorf("unexpected session row: %v", rows[3])
	}
	if rows[4][0] != "task_id" {
		t.Errorf("unexpected task header: %v", rows[4])
	}
	if rows[5][2] != "write tests" || rows[5][3] != "high" || rows[5][4] != "true" || rows[5][5] == "" {
		t.Errorf("unexpected task row: %v", rows[5])
	}
	if rows[6][2] != "review, then merge" || rows[6][4] != "false" || rows[6][5] != "" {
		t.Errorf("unexpected task row: %v", rows[6])
	}
}

func TestRenderTextAndMarkdown(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"Tempo Productivity Report", "Total sessions:      1", "25m", "#api", "[x] write tests", "[ ] review, then merge"}},
		{"md", []string{"# Tempo Productivity Report", "| Start | Mode |", "4/5", "- [x] write tests", "- [ ] review, then merge"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(sampleReport(), tt.format)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			out := string(data)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := Render(sampleReport(), "pdf")
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0m"},
		{25, "25m"},
		{90, "1h 30m"},
		{125.4, "2h 5m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.in); got != tt.want {
			t.Errorf("formatMinutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormats(t *testing.T) {
	got := strings.Join(Formats(), ",")
	if got != "csv,json,markdown,text,yaml" {
		t.Errorf("unexpected formats: %s", got)
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"json": "application/json",
		"CSV":  "text/csv; charset=utf-8",
		"md":   "text/markdown; charset=utf-8",
		"yml":  "application/yaml",
		"txt":  "text/plain; charset=utf-8",
		"pdf":  "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}
