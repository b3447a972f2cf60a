package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	goalDaily   int
	goalWeekly  int
	goalMonthly int
)

// goalsCmd shows progress against the focus-minute targets.
var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show progress toward daily, weekly and monthly focus goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		progress, err := app.stats.GetGoalProgress(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			list := make([]map[string]any, 0, len(progress))
			for _, g := range progress {
				list = append(list, map[string]any{
					"period":         g.Period,
					"target_minutes": g.TargetMinutes,
					"actual_minutes": g.ActualMinutes,
					"percent":        g.Percent,
					"achieved":       g.Achieved,
				})
			}
			return printJSON(out, map[string]any{"goals": list})
		}

		for _, g := range progress {
			status := ""
			if g.Achieved {
				status = "  achieved"
			}
			fmt.Fprintf(out, "%-8s %6.0f / %d min  (%.0f%%)%s\n",
				g.Period, g.ActualMinutes, g.TargetMinutes, g.Percent, status)
		}
		return nil
	},
}

var goalsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change focus goals",
	Long:  `Change one or more focus goals. Every goal must be a positive number of minutes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		goals := app.stats.GetGoals()
		flags := cmd.Flags()
		if flags.Changed("daily") {
			goals.DailyMinutes = goalDaily
		}
		if flags.Changed("weekly") {
			goals.WeeklyMinutes = goalWeekly
		}
		if flags.Changed("monthly") {
			goals.MonthlyMinutes = goalMonthly
		}
		if err := app.stats.SetGoals(cmd.Context(), goals); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Goals: daily %d, weekly %d, monthly %d minutes\n",
			goals.DailyMinutes, goals.WeeklyMinutes, goals.MonthlyMinutes)
		return nil
	},
}

func init() {
	goalsSetCmd.Flags().IntVar(&goalDaily, "daily", 0, "Daily focus goal in minutes")
	goalsSetCmd.Flags().IntVar(&goalWeekly, "weekly", 0, "Weekly focus goal in minutes")
	goalsSetCmd.Flags().IntVar(&goalMonthly, "monthly", 0, "Monthly focus goal in minutes")

	goalsCmd.AddCommand(goalsSetCmd)
	rootCmd.AddCommand(goalsCmd)
}
