package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/dailyquest/internal/database"
	"github.com/example/dailyquest/internal/progress"
)

// Overview is the read model of a user's progress.
type Overview struct {
	XP             int                 `json:"xp"`
	Level          int                 `json:"level"`
	CurrentXP      int                 `json:"currentXP"`
	NextLevelXP    int                 `json:"nextLevelXP"`
	TotalCompleted int                 `json:"totalCompleted"`
	Streak         int                 `json:"streak"`
	LastActiveDate string              `json:"lastActiveDate,omitempty"`
	Achievements   []AchievementDetail `json:"achievements"`
	DailyCompleted map[string]int      `json:"dailyCompleted"`
}

// Snapshot loads the stored progress. A user without a row gets an empty snapshot.
func (s *Service) Snapshot(ctx context.Context) (progress.Snapshot, error) {
	row, err := database.NewProgressRepository(s.db).Get(ctx, s.userKey)
	if errors.Is(err, database.ErrNotFound) {
		return progress.NewSnapshot(), nil
	}
	if err != nil {
		return progress.Snapshot{}, fmt.Errorf("load progress: %w", err)
	}
	return database.DecodeSnapshot(row), nil
}

// Overview returns progress with every catalog achievement and its unlock state.
// The streak is the one in effect today.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	lvl := progress.LevelOf(snap.XP)
	defs := s.engine.Catalog().All()
	achievements := make([]AchievementDetail, 0, len(defs))
	for _, def := range defs {
		achievements = append(achievements, detailOf(def, snap.Achievements[def.ID]))
	}

	return &Overview{
		XP:             snap.XP,
		Level:          lvl.Level,
		CurrentXP:      lvl.CurrentXP,
		NextLevelXP:    lvl.NextLevelXP,
		TotalCompleted: snap.TotalCompleted,
		Streak:         snap.CurrentStreak(s.Today()),
		LastActiveDate: snap.LastActiveDate.String(),
		Achievements:   achievements,
		DailyCompleted: snap.DailyCompleted,
	}, nil
}
