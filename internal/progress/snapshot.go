package progress

// Unlock records when an achievement was earned.
type Unlock struct {
	Unlocked   bool   `json:"unlocked"`
	UnlockedAt string `json:"unlockedAt"`
}

// Snapshot is the complete gamification state of one user at a point in time.
// It is a plain value: the engine never mutates a snapshot it was given.
type Snapshot struct {
	XP             int
	TotalCompleted int
	Streak         int
	LastActiveDate Date

	// DailyCompleted maps an ISO date to the number of completions credited that day.
	DailyCompleted map[string]int
	// Achievements maps an achievement id to its unlock record.
	Achievements map[string]Unlock
	// Credited maps a task id to the ISO date it was credited on. Ids decoded from
	// the legacy list format carry an empty date.
	Credited map[string]string
}

// NewSnapshot returns the state of a user who has never completed anything.
func NewSnapshot() Snapshot {
	return Snapshot{
		DailyCompleted: map[string]int{},
		Achievements:   map[string]Unlock{},
		Credited:       map[string]string{},
	}
}

// Clone returns a deep copy of s. Nil collections come back empty.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.DailyCompleted = make(map[string]int, len(s.DailyCompleted))
	for k, v := range s.DailyCompleted {
		out.DailyCompleted[k] = v
	}
	out.Achievements = make(map[string]Unlock, len(s.Achievements))
	for k, v := range s.Achievements {
		out.Achievements[k] = v
	}
	out.Credited = make(map[string]string, len(s.Credited))
	for k, v := range s.Credited {
		out.Credited[k] = v
	}
	return out
}

// HasCredited reports whether taskID already earned XP.
func (s Snapshot) HasCredited(taskID string) bool {
	if taskID == "" {
		return false
	}
	_, ok := s.Credited[taskID]
	return ok
}

func (s Snapshot) IsUnlocked(id string) bool {
	return s.Achievements[id].Unlocked
}

// CompletedOn returns the number of completions credited on d.
func (s Snapshot) CompletedOn(d Date) int {
	return s.DailyCompleted[d.String()]
}

// CurrentStreak is the streak as seen on today: a streak whose last active day is
// older than yesterday has already been broken, even though the stored value is
// only reset by the next completion.
func (s Snapshot) CurrentStreak(today Date) int {
	if s.LastActiveDate.IsZero() {
		return 0
	}
	if s.LastActiveDate == today || s.LastActiveDate == today.AddDays(-1) {
		return s.Streak
	}
	return 0
}
