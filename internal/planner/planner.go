// Package planner manages the tasks and moods of the daily planner.
package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/example/dailyquest/internal/database"
	"github.com/example/dailyquest/internal/progress"
	"github.com/example/dailyquest/pkg/models"
)

const maxTitleLength = 500

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTaskNotFound = errors.New("task not found")
	ErrMoodNotFound = errors.New("mood not found")
)

// Today reports the current calendar date of the user.
type Today interface {
	Today() progress.Date
}

// Planner validates input and stores tasks and moods.
type Planner struct {
	tasks *database.TaskRepository
	moods *database.MoodRepository
	today Today
}

func New(db *sqlx.DB, today Today) *Planner {
	return &Planner{
		tasks: database.NewTaskRepository(db),
		moods: database.NewMoodRepository(db),
		today: today,
	}
}

// AddTask adds a task for date, or for today when date is empty.
func (p *Planner) AddTask(ctx context.Context, title, date string) (*models.Task, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	d, err := p.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	return p.tasks.Create(ctx, title, d.String())
}

func (p *Planner) AddTomorrow(ctx context.Context, title string) (*models.Task, error) {
	return p.AddTask(ctx, title, p.today.Today().AddDays(1).String())
}

// TasksOn lists the tasks of a day in display order. An empty date means today.
func (p *Planner) TasksOn(ctx context.Context, date string) ([]models.Task, error) {
	d, err := p.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	return p.tasks.ListByDate(ctx, d.String())
}

func (p *Planner) Task(ctx context.Context, id string) (*models.Task, error) {
	task, err := p.tasks.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return task, err
}

func (p *Planner) DeleteTask(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: task id is required", ErrInvalidInput)
	}
	err := p.tasks.Delete(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

// OpenTasks counts the unfinished tasks of today.
func (p *Planner) OpenTasks(ctx context.Context) (int, error) {
	return p.tasks.CountOpen(ctx, p.today.Today().String())
}

// DailyTotals aggregates tasks per day for the given number of days ending today.
func (p *Planner) DailyTotals(ctx context.Context, days int) ([]models.DayTotals, error) {
	since := p.today.Today().AddDays(-(days - 1))
	return p.tasks.DailyTotals(ctx, since.String())
}

// TasksBetween lists the tasks in the inclusive date range.
func (p *Planner) TasksBetween(ctx context.Context, from, to progress.Date) ([]models.Task, error) {
	return p.tasks.ListBetween(ctx, from.String(), to.String())
}

// RecordMood stores the mood of a day, replacing an earlier one. An empty date means today.
func (p *Planner) RecordMood(ctx context.Context, date, mood, note string) (*models.DailyMood, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, fmt.Errorf("%w: mood is required", ErrInvalidInput)
	}
	d, err := p.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	return p.moods.Upsert(ctx, models.DailyMood{
		MoodDate: d.String(),
		Mood:     mood,
		Note:     sql.NullString{String: note, Valid: note != ""},
	})
}

func (p *Planner) MoodOn(ctx context.Context, date string) (*models.DailyMood, error) {
	d, err := p.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	m, err := p.moods.GetByDate(ctx, d.String())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrMoodNotFound
	}
	return m, err
}

// Moods returns the moods of the last days days including today, newest first.
// days <= 0 returns every recorded mood.
func (p *Planner) Moods(ctx context.Context, days int) ([]models.DailyMood, error) {
	since := ""
	if days > 0 {
		since = p.today.Today().AddDays(-(days - 1)).String()
	}
	return p.moods.ListSince(ctx, since)
}

func (p *Planner) dateOrToday(s string) (progress.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return p.today.Today(), nil
	}
	d, err := progress.ParseDate(s)
	if err != nil {
		return progress.Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", fmt.Errorf("%w: title is longer than %d characters", ErrInvalidInput, maxTitleLength)
	}
	return title, nil
}
