package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/domain"
)

// templatesCmd lists the built-in and custom pomodoro templates.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List pomodoro templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := newController(nil)
		defer ctrl.Close()

		current := app.settings.Settings()
		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]any, 0)
			for _, t := range ctrl.Templates() {
				list = append(list, map[string]any{
					"name":                        t.Name,
					"focus_minutes":               t.FocusMinutes,
					"short_break_minutes":         t.ShortBreakMinutes,
					"long_break_minutes":          t.LongBreakMinutes,
					"pomodoros_before_long_break": t.PomodorosBeforeLongBreak,
					"active":                      templateActive(t, current),
				})
			}
			return printJSON(out, map[string]any{"templates": list})
		}

		for _, t := range ctrl.Templates() {
			marker := " "
			if templateActive(t, current) {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-14s focus %2dm  short %2dm  long %2dm  every %d\n",
				marker, t.Name, t.FocusMinutes, t.ShortBreakMinutes, t.LongBreakMinutes, t.PomodorosBeforeLongBreak)
		}
		return nil
	},
}

var templatesApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Apply a template's durations to the settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := newController(nil)
		defer ctrl.Close()

		if !ctrl.ApplyTemplate(cmd.Context(), args[0]) {
			return fmt.Errorf("unknown template %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied template %s\n", args[0])
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesApplyCmd)
	rootCmd.AddCommand(templatesCmd)
}

func templateActive(t domain.Template, st domain.Settings) bool {
	return t.Durations() == st.Durations && t.PomodorosBeforeLongBreak == st.PomodorosBeforeLongBreak
}
