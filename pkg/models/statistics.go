package models

// DayTotals is the number of planned and completed tasks on one day.
type DayTotals struct {
	Date      string `json:"date" db:"task_date"`
	Total     int    `json:"total" db:"total"`
	Completed int    `json:"completed" db:"completed"`
}
