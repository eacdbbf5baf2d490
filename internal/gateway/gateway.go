package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/dailyquest/internal/clock"
	"github.com/example/dailyquest/internal/database"
	"github.com/example/dailyquest/internal/progress"
	"github.com/example/dailyquest/pkg/models"
)

// DefaultUserKey identifies the single user of the application.
const DefaultUserKey = "main_user"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrConcurrentUpdate = errors.New("progress was updated concurrently, try again")
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	UserKey  string
	Location *time.Location
	Clock    clock.Clock
	Catalog  *progress.Catalog
	Logger   *log.Logger
}

// Service is the completion gateway: it loads a user's progress, runs the engine
// and persists the result as one unit.
type Service struct {
	db      *sqlx.DB
	engine  *progress.Engine
	userKey string
	loc     *time.Location
	clock   clock.Clock
	logger  *log.Logger
	locks   userLocks
}

func NewService(db *sqlx.DB, opts Options) *Service {
	s := &Service{
		db:      db,
		engine:  progress.NewEngine(opts.Catalog),
		userKey: opts.UserKey,
		loc:     opts.Location,
		clock:   opts.Clock,
		logger:  opts.Logger,
	}
	if s.userKey == "" {
		s.userKey = DefaultUserKey
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.clock == nil {
		s.clock = clock.Real{Location: s.loc}
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "gateway: ", log.LstdFlags)
	}
	return s
}

// AchievementDetail is an achievement definition joined with its unlock state.
type AchievementDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
}

// CompletionResult is what a completion reports back to the caller.
type CompletionResult struct {
	XPGained        int                 `json:"xpGained"`
	NewXP           int                 `json:"newXP"`
	TotalCompleted  int                 `json:"totalCompleted"`
	Streak          int                 `json:"streak"`
	NewAchievements []AchievementDetail `json:"newAchievements"`
	AlreadyCounted  bool                `json:"alreadyCounted,omitempty"`
	LevelUp         bool                `json:"levelUp"`
	NewLevel        int                 `json:"newLevel"`
}

// Now returns the current time in the configured location.
func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Today returns the current calendar date in the configured location.
func (s *Service) Today() progress.Date {
	return progress.DateOf(s.Now())
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) Catalog() *progress.Catalog { return s.engine.Catalog() }

// CompleteTask credits one completion. taskID may be empty; a task id that was
// already credited yields AlreadyCounted and changes nothing.
func (s *Service) CompleteTask(ctx context.Context, taskID string) (*CompletionResult, error) {
	taskID = strings.TrimSpace(taskID)

	unlock := s.locks.lock(s.userKey)
	defer unlock()

	var result *CompletionResult
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		result, err = s.credit(ctx, tx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ToggleTask sets a task's completion flag. Completing a task also credits it,
// inside the same transaction; un-completing never takes XP back.
func (s *Service) ToggleTask(ctx context.Context, id string, completed bool) (*models.Task, *CompletionResult, error) {
	unlock := s.locks.lock(s.userKey)
	defer unlock()

	var (
		task   *models.Task
		result *CompletionResult
	)
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		task, err = database.NewTaskRepository(tx).SetCompleted(ctx, id, completed)
		if errors.Is(err, database.ErrNotFound) {
			return ErrTaskNotFound
		}
		if err != nil {
			return err
		}
		if !completed {
			return nil
		}
		result, err = s.credit(ctx, tx, task.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return task, result, nil
}

// credit runs load, transition and persist against tx. Callers hold the user lock.
func (s *Service) credit(ctx context.Context, tx *sqlx.Tx, taskID string) (*CompletionResult, error) {
	repo := database.NewProgressRepository(tx)
	row, err := repo.GetOrCreate(ctx, s.userKey)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	prev := database.DecodeSnapshot(row)
	out := s.engine.Apply(prev, progress.Event{TaskID: taskID, At: s.Now()})

	levelBefore := progress.LevelOf(prev.XP).Level
	result := &CompletionResult{
		XPGained:        out.XPGained,
		NewXP:           out.Snapshot.XP,
		TotalCompleted:  out.Snapshot.TotalCompleted,
		Streak:          out.Snapshot.Streak,
		NewAchievements: s.details(out.Unlocked, out.Snapshot),
		AlreadyCounted:  out.AlreadyCounted,
		NewLevel:        progress.LevelOf(out.Snapshot.XP).Level,
	}
	result.LevelUp = result.NewLevel > levelBefore

	if out.AlreadyCounted {
		return result, nil
	}

	if err := database.EncodeSnapshot(out.Snapshot, row); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, row); err != nil {
		if errors.Is(err, database.ErrVersionConflict) {
			return nil, ErrConcurrentUpdate
		}
		return nil, fmt.Errorf("save progress: %w", err)
	}

	if len(out.Unlocked) > 0 {
		s.logger.Printf("user %s unlocked %s", s.userKey, strings.Join(out.Unlocked, ", "))
	}
	return result, nil
}

// details attaches catalog metadata to unlocked ids. Ids missing from the
// catalog are dropped.
func (s *Service) details(ids []string, snap progress.Snapshot) []AchievementDetail {
	out := make([]AchievementDetail, 0, len(ids))
	for _, id := range ids {
		def, ok := s.engine.Catalog().Lookup(id)
		if !ok {
			continue
		}
		out = append(out, detailOf(def, snap.Achievements[id]))
	}
	return out
}

func detailOf(def progress.Definition, u progress.Unlock) AchievementDetail {
	return AchievementDetail{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		Unlocked:    u.Unlocked,
		UnlockedAt:  u.UnlockedAt,
	}
}

// userLocks serializes load/transition/persist per user key.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *userLocks) lock(key string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
