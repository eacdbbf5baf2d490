package stats

import (
	"math"

	"github.com/example/dailyquest/internal/progress"
	"github.com/example/dailyquest/pkg/models"
)

// HeatmapDays is the window of the contribution graph.
const HeatmapDays = 366

// HeatmapDay is one cell of the contribution graph.
type HeatmapDay struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Mood      string `json:"mood,omitempty"`
}

type HeatmapStats struct {
	TotalDays      int `json:"totalDays"`
	TotalTasks     int `json:"totalTasks"`
	TotalCompleted int `json:"totalCompleted"`
	CurrentStreak  int `json:"currentStreak"`
	CompletionRate int `json:"completionRate"`
}

type Heatmap struct {
	Data  map[string]HeatmapDay `json:"data"`
	Stats HeatmapStats          `json:"stats"`
}

// HeatmapStart is the first date covered by Contribution.
func HeatmapStart(today progress.Date) progress.Date {
	return today.AddDays(-(HeatmapDays - 1))
}

// Contribution builds a year of per-day activity. A day appears in Data when it has
// tasks or a mood.
func Contribution(totals []models.DayTotals, moods []models.DailyMood, today progress.Date) Heatmap {
	from := HeatmapStart(today)
	lo, hi := from.String(), today.String()

	data := map[string]HeatmapDay{}
	for date, d := range byDate(totals, from, today) {
		data[date] = HeatmapDay{Total: d.Total, Completed: d.Completed}
	}
	for _, m := range moods {
		if m.MoodDate < lo || m.MoodDate > hi {
			continue
		}
		day := data[m.MoodDate]
		day.Mood = m.Mood
		data[m.MoodDate] = day
	}

	st := HeatmapStats{TotalDays: len(data)}
	for _, d := range data {
		st.TotalTasks += d.Total
		st.TotalCompleted += d.Completed
	}
	if st.TotalTasks > 0 {
		st.CompletionRate = int(math.Round(float64(st.TotalCompleted) * 100 / float64(st.TotalTasks)))
	}
	for i := 0; i < HeatmapDays; i++ {
		if data[today.AddDays(-i).String()].Completed == 0 {
			break
		}
		st.CurrentStreak++
	}

	return Heatmap{Data: data, Stats: st}
}
