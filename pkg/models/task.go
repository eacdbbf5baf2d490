package models

import "time"

// Task is a single to-do item planned for a calendar day.
type Task struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	TaskDate    string    `json:"taskDate" db:"task_date"` // YYYY-MM-DD
	IsCompleted bool      `json:"isCompleted" db:"is_completed"`
	OrderIndex  int       `json:"orderIndex" db:"order_index"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
