package stats

import (
	"math"

	"github.com/example/dailyquest/internal/progress"
	"github.com/example/dailyquest/pkg/models"
)

// CurveDays is the default window of the mood curve.
const CurveDays = 14

// Moods, from best to worst.
const (
	MoodSunny   = "☀️"
	MoodPartly  = "⛅"
	MoodCloudy  = "☁️"
	MoodRainy   = "🌧️"
	MoodStormy  = "⚡"
	neutralMood = 3
)

var moodScores = map[string]int{
	MoodSunny:  5,
	MoodPartly: 4,
	MoodCloudy: 3,
	MoodRainy:  2,
	MoodStormy: 1,
}

// MoodScore maps a mood to 1..5. Unknown moods score as neutral.
func MoodScore(mood string) int {
	if v, ok := moodScores[mood]; ok {
		return v
	}
	return neutralMood
}

// KnownMood reports whether mood is on the scale.
func KnownMood(mood string) bool {
	_, ok := moodScores[mood]
	return ok
}

// MoodForScore maps an average score back onto the scale.
func MoodForScore(avg float64) string {
	switch {
	case avg >= 4.5:
		return MoodSunny
	case avg >= 3.5:
		return MoodPartly
	case avg >= 2.5:
		return MoodCloudy
	case avg >= 1.5:
		return MoodRainy
	default:
		return MoodStormy
	}
}

// MoodPoint is one day of the curve. Value is 0 when no mood was recorded.
type MoodPoint struct {
	Date  string `json:"date"`
	Mood  string `json:"mood,omitempty"`
	Value int    `json:"value"`
}

type MoodCurve struct {
	Points       []MoodPoint `json:"points"`
	AvgValue     float64     `json:"avgValue"`
	AvgMood      string      `json:"avgMood,omitempty"`
	MostCommon   string      `json:"mostCommon,omitempty"`
	TotalRecords int         `json:"totalRecords"`
}

// Curve returns one point per day for the days days ending today, oldest first,
// with averages over the recorded days. Ties for the most common mood go to
// the one recorded earliest in the window.
func Curve(moods []models.DailyMood, today progress.Date, days int) MoodCurve {
	if days <= 0 {
		days = CurveDays
	}
	byDay := make(map[string]string, len(moods))
	for _, m := range moods {
		byDay[m.MoodDate] = m.Mood
	}

	c := MoodCurve{Points: make([]MoodPoint, 0, days)}
	counts := map[string]int{}
	sum := 0
	for i := days - 1; i >= 0; i-- {
		date := today.AddDays(-i).String()
		mood, ok := byDay[date]
		if !ok || mood == "" {
			c.Points = append(c.Points, MoodPoint{Date: date})
			continue
		}
		score := MoodScore(mood)
		c.Points = append(c.Points, MoodPoint{Date: date, Mood: mood, Value: score})
		sum += score
		c.TotalRecords++
		counts[mood]++
		if counts[mood] > counts[c.MostCommon] {
			c.MostCommon = mood
		}
	}

	if c.TotalRecords > 0 {
		avg := float64(sum) / float64(c.TotalRecords)
		c.AvgValue = math.Round(avg*10) / 10
		c.AvgMood = MoodForScore(avg)
	}
	return c
}
