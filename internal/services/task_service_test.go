package services

import (
	"context"
	"errors"
	"testing"

	"github.com/xvierd/tempo/internal/domain"
)

func TestTaskService(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewTaskService(store)
	ctx := context.Background()

	first, err := store.Tasks().Add(ctx, "Test Task", "s-1")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := store.Tasks().Add(ctx, "Other Task", "s-2"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	t.Run("list all and by session", func(t *testing.T) {
		all, err := service.ListTasks(ctx, ListTasksRequest{})
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("ListTasks() returned %d tasks, want 2", len(all))
		}

		bySession, _ := service.ListTasks(ctx, ListTasksRequest{SessionID: "s-1"})
		if len(bySession) != 1 || bySession[0].ID != first.ID {
			t.Errorf("ListTasks(s-1) = %v", bySession)
		}
	})

	t.Run("complete task", func(t *testing.T) {
		task, err := service.SetCompleted(ctx, first.ID, true)
		if err != nil {
			t.Fatalf("SetCompleted() error = %v", err)
		}
		if !task.Completed {
			t.Error("SetCompleted() should mark task as completed")
		}

		pending, _ := service.ListTasks(ctx, ListTasksRequest{OnlyPending: true})
		if len(pending) != 1 {
			t.Errorf("ListTasks(pending) returned %d tasks, want 1", len(pending))
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		if _, err := service.GetTask(ctx, 999); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("GetTask() error = %v, want ErrTaskNotFound", err)
		}
		if _, err := service.SetCompleted(ctx, 999, true); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("SetCompleted() error = %v, want ErrTaskNotFound", err)
		}
		if err := service.DeleteTask(ctx, 999); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("DeleteTask() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("delete task", func(t *testing.T) {
		if err := service.DeleteTask(ctx, first.ID); err != nil {
			t.Fatalf("DeleteTask() error = %v", err)
		}
		if _, err := service.GetTask(ctx, first.ID); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("GetTask() after delete error = %v", err)
		}
	})
}
