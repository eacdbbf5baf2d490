package models

import (
	"database/sql"
	"time"
)

// GameProgress is the persisted gamification row of a user. Collection fields are
// JSON-encoded text.
type GameProgress struct {
	UserKey         string         `db:"user_key"`
	XP              int            `db:"xp"`
	TotalCompleted  int            `db:"total_completed"`
	Streak          int            `db:"streak"`
	LastActiveDate  sql.NullString `db:"last_active_date"`
	Achievements    string         `db:"achievements"`
	DailyCompleted  string         `db:"daily_completed"`
	CreditedTaskIDs string         `db:"credited_task_ids"`
	Version         int64          `db:"version"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
