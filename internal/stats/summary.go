// Package stats derives planner statistics from per-day task totals and moods.
// Every function here is pure; callers load the data and pass today's date.
package stats

import (
	"github.com/example/dailyquest/internal/progress"
	"github.com/example/dailyquest/pkg/models"
)

const (
	// SummaryDays is the window covered by Summarize, today included.
	SummaryDays = 30
	// WeekDays is the length of the short chart in a Summary.
	WeekDays = 7
)

// DayStat is the planned and completed task count of one day.
type DayStat struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// DayPoint is a DayStat with its date, used for charts.
type DayPoint struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// Summary is the short-term overview of the planner.
type Summary struct {
	TotalTasks     int                `json:"totalTasks"`
	CompletedTasks int                `json:"completedTasks"`
	Streak         int                `json:"streak"`
	Last7Days      []DayPoint         `json:"last7Days"`
	DailyStats     map[string]DayStat `json:"dailyStats"`
}

// Summarize covers the SummaryDays days ending today. Totals outside the window
// are ignored.
func Summarize(totals []models.DayTotals, today progress.Date) Summary {
	from := today.AddDays(-(SummaryDays - 1))
	daily := byDate(totals, from, today)

	s := Summary{
		Last7Days:  make([]DayPoint, 0, WeekDays),
		DailyStats: daily,
	}
	for _, d := range daily {
		s.TotalTasks += d.Total
		s.CompletedTasks += d.Completed
	}
	for i := WeekDays - 1; i >= 0; i-- {
		date := today.AddDays(-i).String()
		d := daily[date]
		s.Last7Days = append(s.Last7Days, DayPoint{Date: date, Total: d.Total, Completed: d.Completed})
	}
	s.Streak = allDoneStreak(daily, today)
	return s
}

// allDoneStreak counts consecutive days, walking back from today, on which every
// planned task was completed. Today may have no tasks yet without breaking the
// chain; any earlier day without tasks ends it.
func allDoneStreak(daily map[string]DayStat, today progress.Date) int {
	streak := 0
	for i := 0; i < SummaryDays; i++ {
		d, ok := daily[today.AddDays(-i).String()]
		if !ok || d.Total == 0 {
			if i == 0 {
				continue
			}
			break
		}
		if d.Completed != d.Total {
			break
		}
		streak++
	}
	return streak
}

func byDate(totals []models.DayTotals, from, to progress.Date) map[string]DayStat {
	out := make(map[string]DayStat, len(totals))
	lo, hi := from.String(), to.String()
	for _, t := range totals {
		if t.Date < lo || t.Date > hi {
			continue
		}
		d := out[t.Date]
		d.Total += t.Total
		d.Completed += t.Completed
		out[t.Date] = d
	}
	return out
}
