package progress

import "time"

const (
	// XPPerTask is awarded for every credited completion.
	XPPerTask = 10

	// UnlockedAtLayout formats the display timestamp stored with an unlock.
	UnlockedAtLayout = "2006-01-02 15:04"
)

// Event is a single task completion.
type Event struct {
	// TaskID may be empty; such completions are credited but cannot be deduplicated.
	TaskID string
	// At is the wall-clock time of the completion. Its location decides the
	// calendar date, hour of day and weekday.
	At time.Time
}

// Outcome is the result of applying one event to a snapshot.
type Outcome struct {
	Snapshot       Snapshot
	Unlocked       []string
	XPGained       int
	AlreadyCounted bool
}

// Engine computes progress transitions against an achievement catalog.
type Engine struct {
	catalog *Catalog
}

func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{catalog: catalog}
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

// Apply credits ev against prev and returns the next snapshot. prev is not modified.
func (e *Engine) Apply(prev Snapshot, ev Event) Outcome {
	if prev.HasCredited(ev.TaskID) {
		return Outcome{Snapshot: prev, Unlocked: []string{}, AlreadyCounted: true}
	}

	next := prev.Clone()
	date := DateOf(ev.At)
	key := date.String()

	if ev.TaskID != "" {
		next.Credited[ev.TaskID] = key
	}
	next.XP += XPPerTask
	next.TotalCompleted++
	next.DailyCompleted[key]++

	switch prev.LastActiveDate {
	case date.AddDays(-1):
		next.Streak = prev.Streak + 1
	case date:
		// Already counted toward the streak today.
	default:
		next.Streak = 1
	}
	next.LastActiveDate = date

	unlocked := e.evaluate(&next, evaluation{
		total:      next.TotalCompleted,
		streak:     next.Streak,
		dailyCount: next.DailyCompleted[key],
		at:         ev.At,
	})

	return Outcome{
		Snapshot: next,
		Unlocked: unlocked,
		XPGained: XPPerTask,
	}
}

// evaluate unlocks, in catalog order, every achievement that is satisfied and
// not yet earned.
func (e *Engine) evaluate(s *Snapshot, ev evaluation) []string {
	unlocked := []string{}
	stamp := ev.at.Format(UnlockedAtLayout)
	for _, def := range e.catalog.defs {
		if s.IsUnlocked(def.ID) || !def.Predicate.satisfied(ev) {
			continue
		}
		s.Achievements[def.ID] = Unlock{Unlocked: true, UnlockedAt: stamp}
		unlocked = append(unlocked, def.ID)
	}
	return unlocked
}
