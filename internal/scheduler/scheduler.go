package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/dailyquest/internal/clock"
	"github.com/example/dailyquest/internal/progress"
)

// Defaults for the notification window.
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
	DefaultReminderHour          = 20
)

// Reminder is sent when nothing has been completed today.
type Reminder struct {
	Date      progress.Date
	Streak    int
	OpenTasks int
}

// Notifier delivers reminders
type Notifier interface {
	SendReminder(ctx context.Context, r Reminder) error
}

// ProgressSource reports the stored progress and the user's current date.
type ProgressSource interface {
	Snapshot(ctx context.Context) (progress.Snapshot, error)
	Today() progress.Date
}

// TaskCounter counts today's unfinished tasks.
type TaskCounter interface {
	OpenTasks(ctx context.Context) (int, error)
}

type Options struct {
	Location     *time.Location
	Clock        clock.Clock
	ReminderHour int
	StartHour    int
	EndHour      int
	Logger       *log.Logger
}

// Scheduler manages scheduled jobs for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	progress  ProgressSource
	tasks     TaskCounter
	clock     clock.Clock
	loc       *time.Location
	logger    *log.Logger

	reminderHour int
	startHour    int
	endHour      int

	mu       sync.Mutex
	lastSent progress.Date
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a new scheduler instance. Hour 0 is midnight; out-of-range hours
// fall back to the defaults.
func New(notifier Notifier, src ProgressSource, tasks TaskCounter, opts Options) *Scheduler {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{Location: loc}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "scheduler: ", log.LstdFlags)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler:    gocron.NewScheduler(loc),
		notifier:     notifier,
		progress:     src,
		tasks:        tasks,
		clock:        clk,
		loc:          loc,
		logger:       logger,
		reminderHour: hourOr(opts.ReminderHour, DefaultReminderHour),
		startHour:    hourOr(opts.StartHour, DefaultNotificationStartHour),
		endHour:      hourOr(opts.EndHour, DefaultNotificationEndHour),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func hourOr(h, def int) int {
	if h < 0 || h > 23 {
		return def
	}
	return h
}

// Start schedules the daily reminder and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	at := fmt.Sprintf("%02d:00", s.reminderHour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.runReminder); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.Printf("daily reminder scheduled at %s %s", at, s.loc)
	return nil
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) runReminder() {
	if _, err := s.CheckAndRemind(s.ctx); err != nil {
		s.logger.Printf("reminder failed: %v", err)
	}
}

// CheckAndRemind sends a reminder when the current hour is inside the
// notification window, nothing has been credited today and no reminder went
// out today yet. It reports whether a reminder was sent.
func (s *Scheduler) CheckAndRemind(ctx context.Context) (bool, error) {
	hour := s.clock.Now().In(s.loc).Hour()
	if hour < s.startHour || hour > s.endHour {
		s.logger.Printf("hour %d is outside notification hours (%d-%d), skipping reminder", hour, s.startHour, s.endHour)
		return false, nil
	}

	today := s.progress.Today()
	s.mu.Lock()
	sent := s.lastSent == today
	s.mu.Unlock()
	if sent {
		return false, nil
	}

	snap, err := s.progress.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("load progress: %w", err)
	}
	if snap.CompletedOn(today) > 0 {
		return false, nil
	}
	open, err := s.tasks.OpenTasks(ctx)
	if err != nil {
		return false, fmt.Errorf("count open tasks: %w", err)
	}

	r := Reminder{Date: today, Streak: snap.CurrentStreak(today), OpenTasks: open}
	if err := s.notifier.SendReminder(ctx, r); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.lastSent = today
	s.mu.Unlock()
	s.logger.Printf("reminder sent for %s (streak %d, %d open tasks)", today, r.Streak, r.OpenTasks)
	return true, nil
}
