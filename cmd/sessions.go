package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/domain"
)

var sessionsLimit int

// sessionsCmd groups session history commands.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage recorded sessions",
}

var sessionsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionsLimit <= 0 {
			return fmt.Errorf("limit must be positive, got %d", sessionsLimit)
		}
		sessions, err := app.stats.GetRecentSessions(cmd.Context(), sessionsLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]any, 0, len(sessions))
			for _, s := range sessions {
				list = append(list, sessionData(s))
			}
			return printJSON(out, map[string]any{"sessions": list, "count": len(list)})
		}

		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		for _, s := range sessions {
			line := fmt.Sprintf("%s  %-11s %s  %5.1f min  %d/%d tasks",
				shortID(s.ID), s.Mode.Label(), s.StartTime.Local().Format("2006-01-02 15:04"),
				s.Minutes(), s.CompletedTasks, s.TotalTasks)
			if s.Tag != "" {
				line += "  #" + s.Tag
			}
			if s.Rating != nil {
				line += fmt.Sprintf("  rated %d", *s.Rating)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session from history",
	Long:  `Delete a session from history. Tasks recorded in the session are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.stats.DeleteSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	sessionsRecentCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 10, "Number of sessions to show")

	sessionsCmd.AddCommand(sessionsRecentCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func sessionData(s *domain.Session) map[string]any {
	data := map[string]any{
		"id":              s.ID,
		"mode":            string(s.Mode),
		"start_time":      s.StartTime.Format(time.RFC3339),
		"end_time":        nil,
		"minutes":         s.Minutes(),
		"tag":             s.Tag,
		"rating":          s.Rating,
		"note":            s.Note,
		"distractions":    s.Distractions,
		"total_tasks":     s.TotalTasks,
		"completed_tasks": s.CompletedTasks,
	}
	if s.EndTime != nil {
		data["end_time"] = s.EndTime.Format(time.RFC3339)
	}
	return data
}
