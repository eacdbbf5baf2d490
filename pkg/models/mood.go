package models

import "database/sql"

// DailyMood is the mood recorded for one day.
type DailyMood struct {
	MoodDate string         `json:"date" db:"mood_date"` // YYYY-MM-DD
	Mood     string         `json:"mood" db:"mood"`
	Note     sql.NullString `json:"-" db:"note"`
}

// NoteText returns the note or an empty string.
func (m DailyMood) NoteText() string {
	if m.Note.Valid {
		return m.Note.String
	}
	return ""
}
