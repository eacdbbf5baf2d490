package bot

import (
	"fmt"
	"strings"

	"github.com/example/dailyquest/internal/gateway"
	"github.com/example/dailyquest/internal/scheduler"
	"github.com/example/dailyquest/internal/stats"
	"github.com/example/dailyquest/pkg/models"
)

const progressBarCells = 10

func formatTasks(date string, tasks []models.Task) string {
	if len(tasks) == 0 {
		return fmt.Sprintf("📅 No tasks for %s yet.\nUse /add <title> to plan one.", date)
	}
	var sb strings.Builder
	done := 0
	for _, t := range tasks {
		if t.IsCompleted {
			done++
		}
	}
	fmt.Fprintf(&sb, "📅 Tasks for %s (%d/%d done)\n\n", date, done, len(tasks))
	for i, t := range tasks {
		mark := "⬜"
		if t.IsCompleted {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, mark, t.Title)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatCompletion(title string, res *gateway.CompletionResult) string {
	if res == nil {
		return fmt.Sprintf("✅ %s", title)
	}
	if res.AlreadyCounted {
		return fmt.Sprintf("✅ %s\nThis task was already counted, no extra XP.", title)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ %s\n+%d XP (total %d)", title, res.XPGained, res.NewXP)
	if res.LevelUp {
		fmt.Fprintf(&sb, "\n🎉 Level up! You reached level %d", res.NewLevel)
	}
	fmt.Fprintf(&sb, "\n🔥 Streak: %s", days(res.Streak))
	for _, a := range res.NewAchievements {
		fmt.Fprintf(&sb, "\n🏆 %s %s: %s", a.Icon, a.Name, a.Description)
	}
	return sb.String()
}

func formatLevel(ov *gateway.Overview) string {
	filled := 0
	if ov.NextLevelXP > 0 {
		filled = ov.CurrentXP * progressBarCells / ov.NextLevelXP
	}
	bar := strings.Repeat("▓", filled) + strings.Repeat("░", progressBarCells-filled)
	return fmt.Sprintf("⭐ Level %d\n%s %d/%d XP\n\nTotal XP: %d\nTasks completed: %d\n🔥 Streak: %s",
		ov.Level, bar, ov.CurrentXP, ov.NextLevelXP, ov.XP, ov.TotalCompleted, days(ov.Streak))
}

func formatBadges(ov *gateway.Overview) string {
	unlocked := 0
	for _, a := range ov.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 Achievements %d/%d\n", unlocked, len(ov.Achievements))
	for _, a := range ov.Achievements {
		if a.Unlocked {
			fmt.Fprintf(&sb, "\n%s %s (%s)", a.Icon, a.Name, a.UnlockedAt)
		} else {
			fmt.Fprintf(&sb, "\n🔒 %s: %s", a.Name, a.Description)
		}
	}
	return sb.String()
}

func formatStats(s stats.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Last %d days: %d/%d tasks done\n", stats.SummaryDays, s.CompletedTasks, s.TotalTasks)
	fmt.Fprintf(&sb, "All-done streak: %s\n", days(s.Streak))
	for _, d := range s.Last7Days {
		fmt.Fprintf(&sb, "\n%s  %d/%d", d.Date, d.Completed, d.Total)
	}
	return sb.String()
}

func formatReminder(r scheduler.Reminder) string {
	var sb strings.Builder
	sb.WriteString("⏰ Nothing completed yet today.")
	switch r.OpenTasks {
	case 0:
		sb.WriteString("\nPlan something small with /add and check it off.")
	case 1:
		sb.WriteString("\n1 task is still waiting.")
	default:
		fmt.Fprintf(&sb, "\n%d tasks are still waiting.", r.OpenTasks)
	}
	if r.Streak > 0 {
		fmt.Fprintf(&sb, "\n🔥 Your %d-day streak ends tonight unless you finish one.", r.Streak)
	}
	return sb.String()
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
