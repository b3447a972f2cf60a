package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/services"
)

var (
	tasksSession string
	tasksPending bool
)

// tasksCmd groups task history commands.
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage recorded tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List every recorded task, or only the tasks of one session.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.tasks.ListTasks(cmd.Context(), services.ListTasksRequest{
			SessionID:   tasksSession,
			OnlyPending: tasksPending,
		})
		if err != nil {
			return err
		}
		return outputTasks(cmd.OutOrStdout(), tasks)
	},
}

var tasksSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search task texts, best match first",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.stats.SearchTasks(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return outputTasks(cmd.OutOrStdout(), tasks)
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskCompleted(cmd, args[0], true)
	},
}

var tasksUndoCmd = &cobra.Command{
	Use:   "undo <id>",
	Short: "Mark a task as not completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaskCompleted(cmd, args[0], false)
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := app.tasks.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
		return nil
	},
}

func init() {
	tasksListCmd.Flags().StringVarP(&tasksSession, "session", "s", "", "Only tasks of this session ID")
	tasksListCmd.Flags().BoolVarP(&tasksPending, "pending", "p", false, "Only tasks not yet completed")

	tasksCmd.AddCommand(tasksListCmd, tasksSearchCmd, tasksDoneCmd, tasksUndoCmd, tasksDeleteCmd)
	rootCmd.AddCommand(tasksCmd)
}

func setTaskCompleted(cmd *cobra.Command, arg string, completed bool) error {
	id, err := parseTaskID(arg)
	if err != nil {
		return err
	}
	task, err := app.tasks.SetCompleted(cmd.Context(), id, completed)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), taskData(task))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", taskCheck(task), task.Text)
	return nil
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func outputTasks(w io.Writer, tasks []*domain.Task) error {
	if jsonOutput {
		list := make([]map[string]any, 0, len(tasks))
		for _, t := range tasks {
			list = append(list, taskData(t))
		}
		return printJSON(w, map[string]any{"tasks": list, "count": len(list)})
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}
	fmt.Fprintf(w, "Tasks (%d):\n\n", len(tasks))
	for _, t := range tasks {
		line := fmt.Sprintf("%4d %s %s", t.ID, taskCheck(t), t.Text)
		if t.Priority != domain.PriorityNone && t.Priority != "" {
			line += fmt.Sprintf(" [%s]", t.Priority)
		}
		if t.EstimatedPomodoros > 0 || t.ActualPomodoros > 0 {
			line += fmt.Sprintf(" %d/%d", t.ActualPomodoros, t.EstimatedPomodoros)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func taskCheck(t *domain.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

func taskData(t *domain.Task) map[string]any {
	data := map[string]any{
		"id":                  t.ID,
		"text":                t.Text,
		"completed":           t.Completed,
		"session_id":          t.SessionID,
		"priority":            string(t.Priority),
		"estimated_pomodoros": t.EstimatedPomodoros,
		"actual_pomodoros":    t.ActualPomodoros,
		"created_at":          t.CreatedAt.Format(time.RFC3339),
	}
	if t.CompletedAt != nil {
		data["completed_at"] = t.CompletedAt.Format(time.RFC3339)
	}
	return data
}
