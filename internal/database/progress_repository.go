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

// ErrVersionConflict is returned when the progress row changed since it was read.
var ErrVersionConflict = errors.New("progress was modified concurrently")

// ProgressRepository handles database operations for gamification progress.
type ProgressRepository struct {
	db sqlx.ExtContext
}

// NewProgressRepository creates a repository over a database or transaction.
func NewProgressRepository(db sqlx.ExtContext) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns the progress row of a user, or ErrNotFound.
func (r *ProgressRepository) Get(ctx context.Context, userKey string) (*models.GameProgress, error) {
	var p models.GameProgress
	query := r.db.Rebind(`
		SELECT user_key, xp, total_completed, streak, last_active_date,
			achievements, daily_completed, credited_task_ids, version, created_at, updated_at
		FROM game_progress
		WHERE user_key = ?
	`)
	err := sqlx.GetContext(ctx, r.db, &p, query, userKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game progress: %w", err)
	}
	return &p, nil
}

// GetOrCreate returns the progress row of a user, inserting an empty one first if needed.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, userKey string) (*models.GameProgress, error) {
	p, err := r.Get(ctx, userKey)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO game_progress (
			user_key, xp, total_completed, streak,
			achievements, daily_completed, credited_task_ids, version, created_at, updated_at
		) VALUES (?, 0, 0, 0, '{}', '{}', '{}', 0, ?, ?)
		ON CONFLICT (user_key) DO NOTHING
	`), userKey, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create game progress: %w", err)
	}
	return r.Get(ctx, userKey)
}

// Update writes p if the stored version still equals p.Version, then bumps p.Version.
func (r *ProgressRepository) Update(ctx context.Context, p *models.GameProgress) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE game_progress SET
			xp = ?,
			total_completed = ?,
			streak = ?,
			last_active_date = ?,
			achievements = ?,
			daily_completed = ?,
			credited_task_ids = ?,
			version = version + 1,
			updated_at = ?
		WHERE user_key = ? AND version = ?
	`),
		p.XP,
		p.TotalCompleted,
		p.Streak,
		p.LastActiveDate,
		p.Achievements,
		p.DailyCompleted,
		p.CreditedTaskIDs,
		now,
		p.UserKey,
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update game progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	p.Version++
	p.UpdatedAt = now
	return nil
}
