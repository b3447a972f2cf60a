package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/tempo/internal/domain"
)

var (
	statsPeriod string
	statsRows   int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of session statistics",
	Long:  `Display a terminal dashboard with focus time per period, streaks, goals, achievements and insights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		periods, err := loadPeriods(ctx, statsPeriod)
		if err != nil {
			return err
		}
		if statsRows > 0 && len(periods) > statsRows {
			periods = periods[:statsRows]
		}

		streak, err := app.stats.GetStreakInfo(ctx)
		if err != nil {
			return err
		}
		goals, err := app.stats.GetGoalProgress(ctx)
		if err != nil {
			return err
		}
		achievements, err := app.stats.GetAchievements(ctx)
		if err != nil {
			return err
		}
		categories, err := app.stats.GetCategoryStats(ctx)
		if err != nil {
			return err
		}
		insights, err := app.stats.GetInsights(ctx)
		if err != nil {
			return err
		}

		d := dashboardData{
			period:       statsPeriod,
			periods:      periods,
			streak:       streak,
			goals:        goals,
			achievements: achievements,
			categories:   categories,
			insights:     insights,
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), d.toMap())
		}
		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "daily", "Time period: daily, weekly or monthly")
	statsCmd.Flags().IntVarP(&statsRows, "rows", "n", 7, "Number of periods to show (0 for all)")
	rootCmd.AddCommand(statsCmd)
}

func loadPeriods(ctx context.Context, period string) ([]domain.PeriodStats, error) {
	switch period {
	case "daily", "day":
		return app.stats.GetDailyStats(ctx)
	case "weekly", "week":
		return app.stats.GetWeeklyStats(ctx)
	case "monthly", "month":
		return app.stats.GetMonthlyStats(ctx)
	default:
		return nil, fmt.Errorf("unknown period %q: use daily, weekly or monthly", period)
	}
}

type dashboardData struct {
	period       string
	periods      []domain.PeriodStats
	streak       domain.StreakInfo
	goals        []domain.GoalProgress
	achievements []domain.Achievement
	categories   []domain.CategoryStats
	insights     domain.ProductivityInsights
}

func (d dashboardData) toMap() map[string]any {
	periods := make([]map[string]any, 0, len(d.periods))
	for _, p := range d.periods {
		periods = append(periods, map[string]any{
			"key":                p.Key,
			"total_minutes":      p.TotalMinutes,
			"sessions_completed": p.SessionsCompleted,
			"tasks_completed":    p.TasksCompleted,
			"total_tasks":        p.TotalTasks,
			"productivity_score": p.ProductivityScore,
		})
	}
	goals := make([]map[string]any, 0, len(d.goals))
	for _, g := range d.goals {
		goals = append(goals, map[string]any{
			"period":         g.Period,
			"target_minutes": g.TargetMinutes,
			"actual_minutes": g.ActualMinutes,
			"percent":        g.Percent,
			"achieved":       g.Achieved,
		})
	}
	unlocked := make([]string, 0, len(d.achievements))
	for _, a := range d.achievements {
		if a.IsUnlocked() {
			unlocked = append(unlocked, a.ID)
		}
	}
	return map[string]any{
		"period":  d.period,
		"periods": periods,
		"streak": map[string]any{
			"current": d.streak.Current,
			"longest": d.streak.Longest,
		},
		"goals":                 goals,
		"achievements_unlocked": unlocked,
		"achievements_total":    len(d.achievements),
		"recommendations":       d.insights.Recommendations,
	}
}

func renderDashboard(w io.Writer, d dashboardData) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8553F"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color("#E8553F"))

	// Header
	fmt.Fprintf(w, "  %s\n", titleStyle.Render("Focus time, "+d.period))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	if len(d.periods) == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed sessions yet."))
	} else {
		maxMinutes := 0.0
		for _, p := range d.periods {
			maxMinutes = math.Max(maxMinutes, p.TotalMinutes)
		}
		maxBarWidth := 30
		for _, p := range d.periods {
			barWidth := 0
			if maxMinutes > 0 {
				barWidth = int(math.Round(p.TotalMinutes / maxMinutes * float64(maxBarWidth)))
			}
			if barWidth < 1 && p.TotalMinutes > 0 {
				barWidth = 1
			}
			fmt.Fprintf(w, "  %s %s %s  %d sessions\n",
				dimStyle.Render(fmt.Sprintf("%-10s", p.Key)),
				barColor.Render(fmt.Sprintf("%-*s", maxBarWidth, buildBar(barWidth))),
				valueStyle.Render(formatHours(p.TotalMinutes/60)),
				p.SessionsCompleted,
			)
		}
		fmt.Fprintln(w)
	}

	// Streak
	fmt.Fprintf(w, "  %s  %s  %s\n\n",
		dimStyle.Render("Streak:"),
		valueStyle.Render(fmt.Sprintf("%d days", d.streak.Current)),
		dimStyle.Render(fmt.Sprintf("(best %d)", d.streak.Longest)),
	)

	// Goals
	if len(d.goals) > 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Goals"))
		for _, g := range d.goals {
			mark := " "
			if g.Achieved {
				mark = "✓"
			}
			filled := int(math.Round(math.Min(g.Percent, 100) / 100 * 20))
			fmt.Fprintf(w, "  %s %s %s %s\n",
				dimStyle.Render(fmt.Sprintf("%-8s", g.Period)),
				barColor.Render(fmt.Sprintf("%-20s", buildBar(filled))),
				valueStyle.Render(fmt.Sprintf("%3.0f%%", g.Percent)),
				mark,
			)
		}
		fmt.Fprintln(w)
	}

	renderAchievements(w, d.achievements, dimStyle, valueStyle)
	renderCategories(w, d.categories, dimStyle, valueStyle)

	if len(d.insights.Recommendations) > 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Insights"))
		for _, r := range d.insights.Recommendations {
			fmt.Fprintf(w, "  • %s\n", r)
		}
		fmt.Fprintln(w)
	}
}

func renderAchievements(w io.Writer, achievements []domain.Achievement, dimStyle, valueStyle lipgloss.Style) {
	if len(achievements) == 0 {
		return
	}
	unlocked := 0
	for _, a := range achievements {
		if a.IsUnlocked() {
			unlocked++
		}
	}
	fmt.Fprintf(w, "  %s %s\n",
		dimStyle.Render("Achievements"),
		valueStyle.Render(fmt.Sprintf("%d/%d", unlocked, len(achievements))),
	)
	for _, a := range achievements {
		if a.IsUnlocked() {
			fmt.Fprintf(w, "  %s %s\n", a.Icon, a.Title)
		}
	}
	fmt.Fprintln(w)
}

func renderCategories(w io.Writer, categories []domain.CategoryStats, dimStyle, valueStyle lipgloss.Style) {
	if len(categories) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Categories"))
	for _, c := range categories {
		fmt.Fprintf(w, "  %s  %s tasks, %d done\n",
			dimStyle.Render(fmt.Sprintf("%-12s", c.Category)),
			valueStyle.Render(fmt.Sprintf("%d", c.TaskCount)),
			c.CompletedCount,
		)
	}
	fmt.Fprintln(w)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
