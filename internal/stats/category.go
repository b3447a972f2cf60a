package stats

import (
	"strings"

	"github.com/xvierd/tempo/internal/domain"
)

type categoryRule struct {
	category domain.Category
	keywords []string
}

// categoryRules are checked in order; the first match wins.
var categoryRules = []categoryRule{
	{domain.CategoryWork, []string{"work", "project", "task"}},
	{domain.CategoryStudy, []string{"study", "learn", "read"}},
	{domain.CategoryHealth, []string{"exercise", "workout", "health"}},
	{domain.CategoryHome, []string{"clean", "organize", "home"}},
	{domain.CategoryDevelopment, []string{"code", "program", "develop"}},
	{domain.CategoryWriting, []string{"write", "document", "report"}},
}

// Categorize assigns a task text to exactly one category by keyword.
func Categorize(text string) domain.Category {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryGeneral
}

// CategoryBreakdown aggregates tasks per category in rule order, followed by
// General. Minutes count each linked session once per category.
func CategoryBreakdown(tasks []*domain.Task, sessions []*domain.Session) []domain.CategoryStats {
	byID := make(map[string]*domain.Session, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
	}

	acc := make(map[domain.Category]*domain.CategoryStats)
	counted := make(map[domain.Category]map[string]bool)
	for _, t := range tasks {
		cat := Categorize(t.Text)
		cs, ok := acc[cat]
		if !ok {
			cs = &domain.CategoryStats{Category: cat}
			acc[cat] = cs
			counted[cat] = make(map[string]bool)
		}
		cs.TaskCount++
		if t.Completed {
			cs.CompletedCount++
		}
		if s, ok := byID[t.SessionID]; ok && !counted[cat][s.ID] {
			counted[cat][s.ID] = true
			cs.TotalMinutes += s.Minutes()
		}
	}

	var out []domain.CategoryStats
	for _, rule := range categoryRules {
		if cs, ok := acc[rule.category]; ok {
			out = append(out, *cs)
		}
	}
	if cs, ok := acc[domain.CategoryGeneral]; ok {
		out = append(out, *cs)
	}
	return out
}
