package services

import (
	"context"
	"strings"

	"github.com/xvierd/tempo/internal/domain"
)

// Tasks returns copies of the tasks of the current session in display order.
func (c *Controller) Tasks() []*domain.Task {
	out := make([]*domain.Task, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.Clone()
	}
	return out
}

// AddTask appends a task to the open session, opening an untimed session
// when idle. Empty text is ignored.
func (c *Controller) AddTask(ctx context.Context, text string) *domain.Task {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	c.ensureSession(ctx)
	t := c.addTask(ctx, text)
	if t == nil {
		return nil
	}
	return t.Clone()
}

func (c *Controller) addTask(ctx context.Context, text string) *domain.Task {
	sessionID := c.session.ID
	task, err := c.storage.Tasks().Add(ctx, text, sessionID)
	if err != nil || task == nil {
		c.logger.Warn("failed to add task", "session", sessionID, "error", err)
		task, err = domain.NewTask(text, sessionID)
		if err != nil {
			return nil
		}
		// Negative ids mark tasks the store never saw.
		c.tempID--
		task.ID = c.tempID
		task.CreatedAt = c.clock.Now()
	}
	task.SortOrder = len(c.tasks)
	c.tasks = append(c.tasks, task)
	return task
}

// ToggleTask flips the completion of a task.
func (c *Controller) ToggleTask(ctx context.Context, id int64) {
	t := c.findTask(id)
	if t == nil {
		return
	}
	t.SetCompleted(!t.Completed, c.clock.Now())
	if !stored(t) {
		return
	}
	if _, err := c.storage.Tasks().ToggleCompleted(ctx, t.ID, t.Completed); err != nil {
		c.logger.Warn("failed to toggle task", "task", t.ID, "error", err)
	}
}

// EditTask replaces the text of a task. Empty text is ignored.
func (c *Controller) EditTask(ctx context.Context, id int64, text string) {
	text = strings.TrimSpace(text)
	t := c.findTask(id)
	if t == nil || text == "" {
		return
	}
	t.Text = text
	c.persistTask(ctx, t)
}

// DeleteTask removes a task.
func (c *Controller) DeleteTask(ctx context.Context, id int64) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	t := c.tasks[idx]
	c.tasks = append(c.tasks[:idx], c.tasks[idx+1:]...)
	if !stored(t) {
		return
	}
	if err := c.storage.Tasks().Delete(ctx, t.ID); err != nil {
		c.logger.Warn("failed to delete task", "task", t.ID, "error", err)
	}
}

// SetTaskPriority changes the priority of a task.
func (c *Controller) SetTaskPriority(ctx context.Context, id int64, p domain.Priority) {
	t := c.findTask(id)
	if t == nil {
		return
	}
	t.Priority = domain.ParsePriority(string(p))
	c.persistTask(ctx, t)
}

// SetTaskEstimate sets the estimated pomodoros; negatives clamp to zero.
func (c *Controller) SetTaskEstimate(ctx context.Context, id int64, n int) {
	t := c.findTask(id)
	if t == nil {
		return
	}
	t.SetEstimate(n)
	c.persistTask(ctx, t)
}

// ReorderTask moves a task to index, clamped to the list bounds, and
// renumbers the sort order of every task.
func (c *Controller) ReorderTask(ctx context.Context, id int64, index int) {
	from := c.indexOf(id)
	if from < 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(c.tasks)-1 {
		index = len(c.tasks) - 1
	}
	if index == from {
		return
	}

	t := c.tasks[from]
	c.tasks = append(c.tasks[:from], c.tasks[from+1:]...)
	c.tasks = append(c.tasks[:index], append([]*domain.Task{t}, c.tasks[index:]...)...)

	for i, task := range c.tasks {
		if task.SortOrder == i {
			continue
		}
		task.SortOrder = i
		c.persistTask(ctx, task)
	}
}

// CompleteAllTasks completes every incomplete task.
func (c *Controller) CompleteAllTasks(ctx context.Context) {
	now := c.clock.Now()
	for _, t := range c.tasks {
		if t.Completed {
			continue
		}
		t.Complete(now)
		if !stored(t) {
			continue
		}
		if _, err := c.storage.Tasks().ToggleCompleted(ctx, t.ID, true); err != nil {
			c.logger.Warn("failed to complete task", "task", t.ID, "error", err)
		}
	}
}

// DeleteCompletedTasks removes every completed task.
func (c *Controller) DeleteCompletedTasks(ctx context.Context) {
	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if !t.Completed {
			kept = append(kept, t)
			continue
		}
		if !stored(t) {
			continue
		}
		if err := c.storage.Tasks().Delete(ctx, t.ID); err != nil {
			c.logger.Warn("failed to delete task", "task", t.ID, "error", err)
		}
	}
	c.tasks = kept
}

// SearchTasks fuzzy-matches the tasks of the current session.
func (c *Controller) SearchTasks(query string) []*domain.Task {
	matches := searchTasks(c.tasks, query)
	out := make([]*domain.Task, len(matches))
	for i, t := range matches {
		out[i] = t.Clone()
	}
	return out
}

func (c *Controller) persistTask(ctx context.Context, t *domain.Task) {
	if !stored(t) {
		return
	}
	if _, err := c.storage.Tasks().UpdateTask(ctx, t); err != nil {
		c.logger.Warn("failed to update task", "task", t.ID, "error", err)
	}
}

func (c *Controller) findTask(id int64) *domain.Task {
	if i := c.indexOf(id); i >= 0 {
		return c.tasks[i]
	}
	return nil
}

func (c *Controller) indexOf(id int64) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func stored(t *domain.Task) bool {
	return t.ID > 0
}
