package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/tempo/internal/domain"
)

func TestSessionRepository(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	ctx := context.Background()
	repo := storage.Sessions()
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	t.Run("CreateSession and GetSessionByID", func(t *testing.T) {
		created, err := repo.CreateSession(ctx, "s-1", domain.ModeFocus, start)
		if err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
		if created.IsClosed() {
			t.Error("CreateSession() returned a closed session")
		}

		got, err := repo.GetSessionByID(ctx, "s-1")
		if err != nil {
			t.Fatalf("GetSessionByID() error = %v", err)
		}
		if got == nil {
			t.Fatal("GetSessionByID() returned nil")
		}
		if got.Mode != domain.ModeFocus {
			t.Errorf("Mode = %v, want %v", got.Mode, domain.ModeFocus)
		}
		if !got.StartTime.Equal(start) {
			t.Errorf("StartTime = %v, want %v", got.StartTime, start)
		}
		if got.EndTime != nil {
			t.Error("EndTime should be nil for an open session")
		}
	})

	t.Run("GetSessionByID unknown", func(t *testing.T) {
		got, err := repo.GetSessionByID(ctx, "missing")
		if err != nil {
			t.Fatalf("GetSessionByID() error = %v", err)
		}
		if got != nil {
			t.Errorf("GetSessionByID() = %v, want nil", got)
		}
	})

	t.Run("CloseSession keeps the first end time", func(t *testing.T) {
		end := start.Add(25 * time.Minute)
		closed, err := repo.CloseSession(ctx, "s-1", end)
		if err != nil {
			t.Fatalf("CloseSession() error = %v", err)
		}
		if closed == nil || closed.EndTime == nil {
			t.Fatal("CloseSession() did not set the end time")
		}
		if closed.Minutes() != 25 {
			t.Errorf("Minutes() = %v, want 25", closed.Minutes())
		}

		ok, err := repo.EndSession(ctx, "s-1", end.Add(time.Hour))
		if err != nil || !ok {
			t.Fatalf("EndSession() = %v, %v", ok, err)
		}
		again, _ := repo.GetSessionByID(ctx, "s-1")
		if !again.EndTime.Equal(end) {
			t.Errorf("EndTime = %v, want %v", again.EndTime, end)
		}
	})

	t.Run("CloseSession unknown", func(t *testing.T) {
		got, err := repo.CloseSession(ctx, "missing", start)
		if err != nil {
			t.Fatalf("CloseSession() error = %v", err)
		}
		if got != nil {
			t.Errorf("CloseSession() = %v, want nil", got)
		}
	})

	t.Run("UpdateSession", func(t *testing.T) {
		s, _ := repo.GetSessionByID(ctx, "s-1")
		s.Tag = "deep-work"
		s.SetRating(4)
		s.Note = "good"
		s.Distractions = 2

		ok, err := repo.UpdateSession(ctx, s)
		if err != nil || !ok {
			t.Fatalf("UpdateSession() = %v, %v", ok, err)
		}

		got, _ := repo.GetSessionByID(ctx, "s-1")
		if got.Tag != "deep-work" || got.Note != "good" || got.Distractions != 2 {
			t.Errorf("UpdateSession() persisted %+v", got)
		}
		if got.Rating == nil || *got.Rating != 4 {
			t.Errorf("Rating = %v, want 4", got.Rating)
		}
	})

	t.Run("GetRecentSessions newest first", func(t *testing.T) {
		if _, err := repo.CreateSession(ctx, "s-2", domain.ModeShortBreak, start.Add(time.Hour)); err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}

		recent, err := repo.GetRecentSessions(ctx, 1)
		if err != nil {
			t.Fatalf("GetRecentSessions() error = %v", err)
		}
		if len(recent) != 1 || recent[0].ID != "s-2" {
			t.Errorf("GetRecentSessions() = %v, want [s-2]", recent)
		}

		all, err := repo.GetAllSessions(ctx)
		if err != nil {
			t.Fatalf("GetAllSessions() error = %v", err)
		}
		if len(all) != 2 || all[0].ID != "s-1" {
			t.Errorf("GetAllSessions() returned %d sessions", len(all))
		}
	})

	t.Run("DeleteSession keeps tasks", func(t *testing.T) {
		if _, err := storage.Tasks().Add(ctx, "orphan", "s-2"); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		n, err := repo.DeleteSession(ctx, "s-2")
		if err != nil {
			t.Fatalf("DeleteSession() error = %v", err)
		}
		if n != 1 {
			t.Errorf("DeleteSession() = %d, want 1", n)
		}

		n, _ = repo.DeleteSession(ctx, "s-2")
		if n != 0 {
			t.Errorf("second DeleteSession() = %d, want 0", n)
		}

		tasks, _ := storage.Tasks().GetBySession(ctx, "s-2")
		if len(tasks) != 1 {
			t.Errorf("GetBySession() after delete = %d tasks, want 1", len(tasks))
		}
	})
}

func TestTaskRepository(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	ctx := context.Background()
	repo := storage.Tasks()

	if _, err := storage.Sessions().CreateSession(ctx, "s-1", domain.ModeFocus, time.Now()); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	t.Run("Add assigns ids and sort order", func(t *testing.T) {
		first, err := repo.Add(ctx, "  write tests  ", "s-1")
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		second, err := repo.Add(ctx, "review", "s-1")
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		if first.Text != "write tests" {
			t.Errorf("Text = %q, want trimmed", first.Text)
		}
		if first.ID == 0 || second.ID <= first.ID {
			t.Errorf("ids = %d, %d, want increasing", first.ID, second.ID)
		}
		if first.SortOrder != 0 || second.SortOrder != 1 {
			t.Errorf("sort orders = %d, %d, want 0, 1", first.SortOrder, second.SortOrder)
		}
		if first.Priority != domain.PriorityNone {
			t.Errorf("Priority = %v, want none", first.Priority)
		}
	})

	t.Run("Add rejects empty text", func(t *testing.T) {
		_, err := repo.Add(ctx, "   ", "s-1")
		if !errors.Is(err, domain.ErrEmptyTaskText) {
			t.Errorf("Add() error = %v, want %v", err, domain.ErrEmptyTaskText)
		}
	})

	t.Run("ToggleCompleted keeps flag and timestamp together", func(t *testing.T) {
		tasks, _ := repo.GetBySession(ctx, "s-1")
		id := tasks[0].ID

		done, err := repo.ToggleCompleted(ctx, id, true)
		if err != nil {
			t.Fatalf("ToggleCompleted() error = %v", err)
		}
		if !done.Completed || done.CompletedAt == nil {
			t.Errorf("ToggleCompleted(true) = %+v", done)
		}

		undone, err := repo.ToggleCompleted(ctx, id, false)
		if err != nil {
			t.Fatalf("ToggleCompleted() error = %v", err)
		}
		if undone.Completed || undone.CompletedAt != nil {
			t.Errorf("ToggleCompleted(false) = %+v", undone)
		}

		missing, err := repo.ToggleCompleted(ctx, 9999, true)
		if err != nil || missing != nil {
			t.Errorf("ToggleCompleted(unknown) = %v, %v", missing, err)
		}
	})

	t.Run("counts", func(t *testing.T) {
		tasks, _ := repo.GetBySession(ctx, "s-1")
		if _, err := repo.ToggleCompleted(ctx, tasks[1].ID, true); err != nil {
			t.Fatalf("ToggleCompleted() error = %v", err)
		}

		total, err := repo.GetTotalTasksCount(ctx, "s-1")
		if err != nil || total != 2 {
			t.Errorf("GetTotalTasksCount() = %d, %v, want 2", total, err)
		}
		completed, err := repo.GetCompletedTasksCount(ctx, "s-1")
		if err != nil || completed != 1 {
			t.Errorf("GetCompletedTasksCount() = %d, %v, want 1", completed, err)
		}

		session, _ := storage.Sessions().GetSessionByID(ctx, "s-1")
		if session.TotalTasks != 2 || session.CompletedTasks != 1 {
			t.Errorf("session counts = %d/%d, want 1/2", session.CompletedTasks, session.TotalTasks)
		}
	})

	t.Run("UpdateTask", func(t *testing.T) {
		tasks, _ := repo.GetBySession(ctx, "s-1")
		task := tasks[0]
		task.Text = "write more tests"
		task.Priority = domain.PriorityHigh
		task.SortOrder = 5
		task.SetEstimate(3)
		task.ActualPomodoros = 1

		ok, err := repo.UpdateTask(ctx, task)
		if err != nil || !ok {
			t.Fatalf("UpdateTask() = %v, %v", ok, err)
		}

		got, _ := repo.GetTaskByID(ctx, task.ID)
		if got.Text != "write more tests" || got.Priority != domain.PriorityHigh {
			t.Errorf("UpdateTask() persisted %+v", got)
		}
		if got.SortOrder != 5 || got.EstimatedPomodoros != 3 || got.ActualPomodoros != 1 {
			t.Errorf("UpdateTask() persisted %+v", got)
		}

		task.ID = 9999
		ok, err = repo.UpdateTask(ctx, task)
		if err != nil || ok {
			t.Errorf("UpdateTask(unknown) = %v, %v", ok, err)
		}
	})

	t.Run("GetTasksByDateRange", func(t *testing.T) {
		now := time.Now()
		in, err := repo.GetTasksByDateRange(ctx, now.Add(-time.Hour), now.Add(time.Hour))
		if err != nil {
			t.Fatalf("GetTasksByDateRange() error = %v", err)
		}
		if len(in) != 2 {
			t.Errorf("GetTasksByDateRange() = %d tasks, want 2", len(in))
		}

		out, _ := repo.GetTasksByDateRange(ctx, now.Add(time.Hour), now.Add(2*time.Hour))
		if len(out) != 0 {
			t.Errorf("GetTasksByDateRange(future) = %d tasks, want 0", len(out))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		tasks, _ := repo.GetBySession(ctx, "s-1")
		if err := repo.Delete(ctx, tasks[0].ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		got, err := repo.GetTaskByID(ctx, tasks[0].ID)
		if err != nil || got != nil {
			t.Errorf("GetTaskByID() after delete = %v, %v", got, err)
		}

		all, _ := repo.GetAllTasks(ctx)
		if len(all) != 1 {
			t.Errorf("GetAllTasks() = %d tasks, want 1", len(all))
		}
	})
}
