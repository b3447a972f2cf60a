// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/ports"
)

// TaskService handles task use cases outside a live countdown, such as
// the tasks subcommands.
type TaskService struct {
	storage ports.Storage
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{storage: storage}
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	SessionID   string
	OnlyPending bool
}

// ListTasks retrieves tasks based on filters.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	var (
		tasks []*domain.Task
		err   error
	)
	if req.SessionID != "" {
		tasks, err = s.storage.Tasks().GetBySession(ctx, req.SessionID)
	} else {
		tasks, err = s.storage.Tasks().GetAllTasks(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if !req.OnlyPending {
		return tasks, nil
	}

	pending := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// GetTask retrieves a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.storage.Tasks().GetTaskByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// SetCompleted marks a task as completed or pending.
func (s *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error) {
	task, err := s.storage.Tasks().ToggleCompleted(ctx, id, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.GetTask(ctx, id); err != nil {
		return err
	}
	return s.storage.Tasks().Delete(ctx, id)
}
