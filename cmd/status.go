package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/domain"
	"github.com/xvierd/tempo/internal/services"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress",
	Long:  `Display today's focus time, the current streak and the most recent session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dash, err := app.stats.GetDashboard(ctx)
		if err != nil {
			return err
		}
		recent, err := app.stats.GetRecentSessions(ctx, 1)
		if err != nil {
			return err
		}
		var last *domain.Session
		if len(recent) > 0 {
			last = recent[0]
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), statusData(dash, last))
		}
		printStatus(cmd.OutOrStdout(), dash, last)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusData(dash services.Dashboard, last *domain.Session) map[string]any {
	result := map[string]any{
		"today": map[string]any{
			"sessions_completed": dash.Today.SessionsCompleted,
			"focus_minutes":      dash.FocusMinutesToday,
			"tasks_completed":    dash.Today.TasksCompleted,
			"completed_today":    dash.CompletedToday,
		},
		"streak": map[string]any{
			"current": dash.Streak.Current,
			"longest": dash.Streak.Longest,
		},
		"last_session": nil,
	}
	if last != nil {
		result["last_session"] = sessionData(last)
	}
	return result
}

func printStatus(w io.Writer, dash services.Dashboard, last *domain.Session) {
	fmt.Fprintf(w, "Today: %d sessions, %.0f focus minutes, %d tasks done\n",
		dash.Today.SessionsCompleted, dash.FocusMinutesToday, dash.Today.TasksCompleted)
	fmt.Fprintf(w, "Streak: %d days (best %d)\n", dash.Streak.Current, dash.Streak.Longest)
	if dash.Streak.Current > 0 && !dash.CompletedToday {
		fmt.Fprintln(w, "Complete a focus session today to keep your streak.")
	}
	if last == nil {
		fmt.Fprintln(w, "No sessions yet. Run \"tempo\" to start one.")
		return
	}
	state := "open"
	if last.IsClosed() {
		state = fmt.Sprintf("%.0f min", last.Minutes())
	}
	fmt.Fprintf(w, "Last: %s %s at %s (%s)\n",
		last.Mode.Label(), shortID(last.ID), last.StartTime.Local().Format("2006-01-02 15:04"), state)
}
