package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/dailyquest/internal/clock"
	"github.com/example/dailyquest/internal/progress"
)

type recordingNotifier struct {
	sent []Reminder
	err  error
}

func (n *recordingNotifier) SendReminder(_ context.Context, r Reminder) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, r)
	return nil
}

type stubProgress struct {
	clock *clock.Fake
	snap  progress.Snapshot
}

func (p *stubProgress) Snapshot(context.Context) (progress.Snapshot, error) { return p.snap, nil }
func (p *stubProgress) Today() progress.Date { return progress.DateOf(p.clock.Now()) }

type stubTasks int

func (t stubTasks) OpenTasks(context.Context) (int, error) { return int(t), nil }

func newTestScheduler(t *testing.T, at time.Time) (*Scheduler, *recordingNotifier, *stubProgress) {
	t.Helper()
	fc := clock.NewFake(at)
	n := &recordingNotifier{}
	src := &stubProgress{clock: fc, snap: progress.NewSnapshot()}
	s := New(n, src, stubTasks(3), Options{
		Location:     time.UTC,
		Clock:        fc,
		ReminderHour: 20,
		StartHour:    8,
		EndHour:      22,
		Logger:       log.New(io.Discard, "", 0),
	})
	t.Cleanup(s.Stop)
	return s, n, src
}

func TestCheckAndRemind_SendsOncePerDay(t *testing.T) {
	ctx := context.Background()
	s, n, src := newTestScheduler(t, time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC))
	src.snap.Streak = 4
	src.snap.LastActiveDate = progress.Date{Year: 2024, Month: 3, Day: 9}

	sent, err := s.CheckAndRemind(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, n.sent, 1)
	assert.Equal(t, Reminder{Date: progress.Date{Year: 2024, Month: 3, Day: 10}, Streak: 4, OpenTasks: 3}, n.sent[0])

	sent, err = s.CheckAndRemind(ctx)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, n.sent, 1)
}

func TestCheckAndRemind_SkipsWhenSomethingWasCompleted(t *testing.T) {
	s, n, src := newTestScheduler(t, time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC))
	src.snap.DailyCompleted["2024-03-10"] = 1

	sent, err := s.CheckAndRemind(context.Background())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, n.sent)
}

func TestCheckAndRemind_OutsideWindow(t *testing.T) {
	s, n, _ := newTestScheduler(t, time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC))

	sent, err := s.CheckAndRemind(context.Background())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, n.sent)
}

func TestCheckAndRemind_NotifierErrorAllowsRetry(t *testing.T) {
	ctx := context.Background()
	s, n, _ := newTestScheduler(t, time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC))
	n.err = errors.New("telegram down")

	_, err := s.CheckAndRemind(ctx)
	assert.Error(t, err)

	n.err = nil
	sent, err := s.CheckAndRemind(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestStart_SchedulesDailyJob(t *testing.T) {
	s, _, _ := newTestScheduler(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	require.NoError(t, s.Start())
	assert.Len(t, s.scheduler.Jobs(), 1)
}

func TestHourOr(t *testing.T) {
	assert.Equal(t, 0, hourOr(0, 20))
	assert.Equal(t, 20, hourOr(-1, 20))
	assert.Equal(t, 20, hourOr(30, 20))
	assert.Equal(t, 7, hourOr(7, 20))
}

func TestNew_MidnightHours(t *testing.T) {
	fc := clock.NewFake(time.Date(2024, 3, 11, 0, 30, 0, 0, time.UTC))
	n := &recordingNotifier{}
	src := &stubProgress{clock: fc, snap: progress.NewSnapshot()}
	s := New(n, src, stubTasks(1), Options{
		Location:     time.UTC,
		Clock:        fc,
		ReminderHour: 0,
		StartHour:    0,
		EndHour:      6,
		Logger:       log.New(io.Discard, "", 0),
	})
	t.Cleanup(s.Stop)

	assert.Equal(t, 0, s.reminderHour)
	assert.Equal(t, 0, s.startHour)

	sent, err := s.CheckAndRemind(context.Background())
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, n.sent, 1)
	assert.Equal(t, 1, n.sent[0].OpenTasks)
}
