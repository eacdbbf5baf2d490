package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/dailyquest/pkg/models"
)

const taskColumns = `id, title, task_date, is_completed, order_index, created_at, updated_at`

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	db sqlx.ExtContext
}

// NewTaskRepository creates a repository over a database or transaction.
func NewTaskRepository(db sqlx.ExtContext) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create appends a task to the end of the given day.
func (r *TaskRepository) Create(ctx context.Context, title, date string) (*models.Task, error) {
	var next int
	err := sqlx.GetContext(ctx, r.db, &next,
		r.db.Rebind(`SELECT COALESCE(MAX(order_index), -1) + 1 FROM tasks WHERE task_date = ?`), date)
	if err != nil {
		return nil, fmt.Errorf("failed to get next order index: %w", err)
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:         uuid.NewString(),
		Title:      title,
		TaskDate:   date,
		OrderIndex: next,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO tasks (id, title, task_date, is_completed, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), task.ID, task.Title, task.TaskDate, task.IsCompleted, task.OrderIndex, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetByID returns a task or ErrNotFound.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := sqlx.GetContext(ctx, r.db, &task,
		r.db.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// ListByDate returns the tasks of one day in display order.
func (r *TaskRepository) ListByDate(ctx context.Context, date string) ([]models.Task, error) {
	tasks := []models.Task{}
	err := sqlx.SelectContext(ctx, r.db, &tasks, r.db.Rebind(`
		SELECT `+taskColumns+` FROM tasks
		WHERE task_date = ?
		ORDER BY order_index ASC, created_at ASC
	`), date)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListBetween returns tasks with from <= task_date <= to, oldest day first.
func (r *TaskRepository) ListBetween(ctx context.Context, from, to string) ([]models.Task, error) {
	tasks := []models.Task{}
	err := sqlx.SelectContext(ctx, r.db, &tasks, r.db.Rebind(`
		SELECT `+taskColumns+` FROM tasks
		WHERE task_date >= ? AND task_date <= ?
		ORDER BY task_date ASC, order_index ASC
	`), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// SetCompleted updates the completion flag and returns the updated task.
func (r *TaskRepository) SetCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE tasks SET is_completed = ?, updated_at = ? WHERE id = ?`),
		completed, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRow(result)
}

// CountOpen returns how many tasks of a day are not completed yet.
func (r *TaskRepository) CountOpen(ctx context.Context, date string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n,
		r.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE task_date = ? AND is_completed = ?`), date, false)
	if err != nil {
		return 0, fmt.Errorf("failed to count open tasks: %w", err)
	}
	return n, nil
}

// DailyTotals aggregates planned and completed tasks per day since the given date.
func (r *TaskRepository) DailyTotals(ctx context.Context, since string) ([]models.DayTotals, error) {
	totals := []models.DayTotals{}
	err := sqlx.SelectContext(ctx, r.db, &totals, r.db.Rebind(`
		SELECT task_date,
			COUNT(*) AS total,
			SUM(CASE WHEN is_completed THEN 1 ELSE 0 END) AS completed
		FROM tasks
		WHERE task_date >= ?
		GROUP BY task_date
		ORDER BY task_date DESC
	`), since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks: %w", err)
	}
	return totals, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
