package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	require.NoError(t, err)
	return ts
}

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestApply_FreshSnapshotFirstTask(t *testing.T) {
	e := NewEngine(nil)

	out := e.Apply(NewSnapshot(), Event{TaskID: "t1", At: at(t, "2024-01-01T10:00:00")})

	assert.False(t, out.AlreadyCounted)
	assert.Equal(t, 10, out.XPGained)
	assert.Equal(t, 10, out.Snapshot.XP)
	assert.Equal(t, 1, out.Snapshot.TotalCompleted)
	assert.Equal(t, 1, out.Snapshot.Streak)
	assert.Equal(t, "2024-01-01", out.Snapshot.LastActiveDate.String())
	assert.Equal(t, []string{"first_task"}, out.Unlocked)
	assert.Equal(t, Unlock{Unlocked: true, UnlockedAt: "2024-01-01 10:00"}, out.Snapshot.Achievements["first_task"])
	assert.Equal(t, map[string]string{"t1": "2024-01-01"}, out.Snapshot.Credited)
}

func TestApply_DuplicateTaskIsNotCreditedTwice(t *testing.T) {
	e := NewEngine(nil)
	first := e.Apply(NewSnapshot(), Event{TaskID: "t1", At: at(t, "2024-01-01T10:00:00")})

	second := e.Apply(first.Snapshot, Event{TaskID: "t1", At: at(t, "2024-01-02T18:30:00")})

	assert.True(t, second.AlreadyCounted)
	assert.Equal(t, 0, second.XPGained)
	assert.Empty(t, second.Unlocked)
	assert.Equal(t, first.Snapshot, second.Snapshot)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	e := NewEngine(nil)
	prev := NewSnapshot()
	prev.DailyCompleted["2024-01-01"] = 2
	prev.Credited["a"] = "2024-01-01"
	before := prev.Clone()

	_ = e.Apply(prev, Event{TaskID: "b", At: at(t, "2024-01-01T12:00:00")})

	assert.Equal(t, before, prev)
}

func TestApply_StreakContinuity(t *testing.T) {
	cases := []struct {
		name  string
		event string
		want  int
	}{
		{name: "next day extends", event: "2024-01-03T08:00:00", want: 5},
		{name: "skipped day resets", event: "2024-01-04T08:00:00", want: 1},
		{name: "same day keeps", event: "2024-01-02T21:00:00", want: 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev := NewSnapshot()
			prev.Streak = 4
			prev.TotalCompleted = 4
			prev.LastActiveDate = mustDate(t, "2024-01-02")

			out := NewEngine(nil).Apply(prev, Event{TaskID: "x", At: at(t, tc.event)})

			assert.Equal(t, tc.want, out.Snapshot.Streak)
			assert.Equal(t, DateOf(at(t, tc.event)), out.Snapshot.LastActiveDate)
		})
	}
}

func TestApply_StreakOfThreeUnlocks(t *testing.T) {
	prev := NewSnapshot()
	prev.Streak = 2
	prev.TotalCompleted = 2
	prev.XP = 20
	prev.LastActiveDate = mustDate(t, "2024-01-02")

	out := NewEngine(nil).Apply(prev, Event{TaskID: "t2", At: at(t, "2024-01-03T08:00:00")})

	assert.Equal(t, 3, out.Snapshot.Streak)
	assert.Contains(t, out.Unlocked, "streak_3")
	assert.NotContains(t, out.Unlocked, "first_task")
}

func TestApply_TimeOfDayAndWeekend(t *testing.T) {
	prev := NewSnapshot()
	prev.TotalCompleted = 3

	// 2024-01-06 is a Saturday.
	out := NewEngine(nil).Apply(prev, Event{TaskID: "n", At: at(t, "2024-01-06T03:00:00")})

	assert.Equal(t, []string{"night_owl", "weekend_warrior"}, out.Unlocked)
}

func TestApply_EarlyBirdWindow(t *testing.T) {
	e := NewEngine(nil)
	prev := NewSnapshot()
	prev.TotalCompleted = 1

	assert.NotContains(t, e.Apply(prev, Event{At: at(t, "2024-01-02T04:59:00")}).Unlocked, "early_bird")
	assert.Contains(t, e.Apply(prev, Event{At: at(t, "2024-01-02T05:00:00")}).Unlocked, "early_bird")
	assert.NotContains(t, e.Apply(prev, Event{At: at(t, "2024-01-02T06:00:00")}).Unlocked, "early_bird")
}

func TestApply_DailyFiveUnlocksOnce(t *testing.T) {
	e := NewEngine(nil)
	snap := NewSnapshot()
	var unlockedOn []int

	for i := 1; i <= 6; i++ {
		ts := at(t, "2024-01-02T10:00:00").Add(time.Duration(i) * time.Minute)
		out := e.Apply(snap, Event{TaskID: fmt.Sprintf("t%d", i), At: ts})
		for _, id := range out.Unlocked {
			if id == "daily_5" {
				unlockedOn = append(unlockedOn, i)
			}
		}
		snap = out.Snapshot
	}

	assert.Equal(t, 6, snap.DailyCompleted["2024-01-02"])
	assert.Equal(t, []int{5}, unlockedOn)
	assert.Equal(t, "2024-01-02 10:05", snap.Achievements["daily_5"].UnlockedAt)
}

func TestApply_MultipleStreakTiersInOneCall(t *testing.T) {
	prev := NewSnapshot()
	prev.Streak = 29
	prev.TotalCompleted = 99
	prev.LastActiveDate = mustDate(t, "2024-03-10")

	out := NewEngine(nil).Apply(prev, Event{TaskID: "z", At: at(t, "2024-03-11T12:00:00")})

	assert.Equal(t, []string{"streak_3", "streak_7", "streak_30", "total_50", "total_100"}, out.Unlocked)
}

func TestApply_UnlockIsNeverOverwritten(t *testing.T) {
	e := NewEngine(nil)
	prev := NewSnapshot()
	prev.TotalCompleted = 10
	prev.Achievements["weekend_warrior"] = Unlock{Unlocked: true, UnlockedAt: "2023-12-30 09:00"}

	out := e.Apply(prev, Event{TaskID: "w", At: at(t, "2024-01-07T11:00:00")})

	assert.NotContains(t, out.Unlocked, "weekend_warrior")
	assert.Equal(t, "2023-12-30 09:00", out.Snapshot.Achievements["weekend_warrior"].UnlockedAt)
}

func TestApply_MonotonicAndConsistentOverSequence(t *testing.T) {
	e := NewEngine(nil)
	snap := NewSnapshot()
	start := at(t, "2024-02-01T07:00:00")

	for i := 0; i < 40; i++ {
		// Every third event repeats the previous task id.
		id := fmt.Sprintf("task-%d", i)
		if i%3 == 2 {
			id = fmt.Sprintf("task-%d", i-1)
		}
		ts := start.Add(time.Duration(i) * 9 * time.Hour)
		out := e.Apply(snap, Event{TaskID: id, At: ts})

		assert.GreaterOrEqual(t, out.Snapshot.XP, snap.XP)
		assert.GreaterOrEqual(t, out.Snapshot.TotalCompleted, snap.TotalCompleted)
		for day, n := range snap.DailyCompleted {
			assert.GreaterOrEqual(t, out.Snapshot.DailyCompleted[day], n)
		}
		for id, u := range snap.Achievements {
			assert.Equal(t, u, out.Snapshot.Achievements[id])
		}
		snap = out.Snapshot
	}

	assert.Equal(t, len(snap.Credited), snap.TotalCompleted)
	perDay := map[string]int{}
	for _, day := range snap.Credited {
		perDay[day]++
	}
	assert.Equal(t, perDay, snap.DailyCompleted)
	for id := range snap.Achievements {
		_, ok := DefaultCatalog().Lookup(id)
		assert.True(t, ok, id)
	}
}

func TestApply_EventWithoutTaskID(t *testing.T) {
	e := NewEngine(nil)
	out := e.Apply(NewSnapshot(), Event{At: at(t, "2024-01-01T10:00:00")})
	again := e.Apply(out.Snapshot, Event{At: at(t, "2024-01-01T10:05:00")})

	assert.False(t, again.AlreadyCounted)
	assert.Equal(t, 2, again.Snapshot.TotalCompleted)
	assert.Empty(t, again.Snapshot.Credited)
}

func TestApply_UsesEventLocationForCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 2024-01-05 23:30 UTC is Saturday 07:30 in UTC+8.
	ts := time.Date(2024, 1, 5, 23, 30, 0, 0, time.UTC).In(loc)

	out := NewEngine(nil).Apply(NewSnapshot(), Event{TaskID: "tz", At: ts})

	assert.Equal(t, 1, out.Snapshot.DailyCompleted["2024-01-06"])
	assert.Contains(t, out.Unlocked, "weekend_warrior")
}

func TestCurrentStreak(t *testing.T) {
	s := NewSnapshot()
	assert.Equal(t, 0, s.CurrentStreak(mustDate(t, "2024-01-10")))

	s.Streak = 6
	s.LastActiveDate = mustDate(t, "2024-01-09")
	assert.Equal(t, 6, s.CurrentStreak(mustDate(t, "2024-01-09")))
	assert.Equal(t, 6, s.CurrentStreak(mustDate(t, "2024-01-10")))
	assert.Equal(t, 0, s.CurrentStreak(mustDate(t, "2024-01-11")))
}
