package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/dailyquest/pkg/models"
)

// MoodRepository handles database operations for daily moods.
type MoodRepository struct {
	db sqlx.ExtContext
}

// NewMoodRepository creates a repository over a database or transaction.
func NewMoodRepository(db sqlx.ExtContext) *MoodRepository {
	return &MoodRepository{db: db}
}

// Upsert records the mood of a day, replacing any earlier entry for that day.
func (r *MoodRepository) Upsert(ctx context.Context, mood models.DailyMood) (*models.DailyMood, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO daily_moods (mood_date, mood, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (mood_date) DO UPDATE SET
			mood = excluded.mood,
			note = excluded.note,
			updated_at = excluded.updated_at
	`), mood.MoodDate, mood.Mood, mood.Note, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to save mood: %w", err)
	}
	return r.GetByDate(ctx, mood.MoodDate)
}

// GetByDate returns the mood of a day, or ErrNotFound.
func (r *MoodRepository) GetByDate(ctx context.Context, date string) (*models.DailyMood, error) {
	var m models.DailyMood
	err := sqlx.GetContext(ctx, r.db, &m,
		r.db.Rebind(`SELECT mood_date, mood, note FROM daily_moods WHERE mood_date = ?`), date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mood: %w", err)
	}
	return &m, nil
}

// ListSince returns moods on or after the given date, newest first.
// An empty since lists everything.
func (r *MoodRepository) ListSince(ctx context.Context, since string) ([]models.DailyMood, error) {
	moods := []models.DailyMood{}
	err := sqlx.SelectContext(ctx, r.db, &moods, r.db.Rebind(`
		SELECT mood_date, mood, note FROM daily_moods
		WHERE mood_date >= ?
		ORDER BY mood_date DESC
	`), since)
	if err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	return moods, nil
}
