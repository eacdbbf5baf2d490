package excel

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/dailyquest/internal/database"
	"github.com/example/dailyquest/internal/gateway"
	"github.com/example/dailyquest/pkg/models"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportTasks_Excel(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	path := writeWorkbook(t, [][]any{
		{"Date", "Title", "Done"},
		{"2024-03-01", "read", "yes"},
		{"2024-03-01", "walk", ""},
		{"2024-03-01", "Read", "no"},
		{"2024-03-02", "", "x"},
		{"soon", "plan", ""},
		{},
		{"2024-03-02T08:00:00Z", "swim", "1"},
	})

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	res, err := ImportTasks(ctx, db, cfg)
	require.NoError(t, err)

	assert.Equal(t, 6, res.TotalProcessed)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "Row 5")

	repo := database.NewTaskRepository(db)
	day1, err := repo.ListByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, day1, 2)
	assert.True(t, day1[0].IsCompleted)
	assert.False(t, day1[1].IsCompleted)

	day2, err := repo.ListByDate(ctx, "2024-03-02")
	require.NoError(t, err)
	require.Len(t, day2, 1)
	assert.Equal(t, "swim", day2[0].Title)

	again, err := ImportTasks(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 4, again.Skipped)
}

func TestImportTasks_CSV(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,title,done\n2024-03-01,\"buy milk, eggs\",true\n2024-03-01,call\n"), 0o600))

	cfg := DefaultImportConfig()
	cfg.FilePath = path
	res, err := ImportTasks(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Empty(t, res.Errors)

	tasks, err := database.NewTaskRepository(db).ListByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "buy milk, eggs", tasks[0].Title)
	assert.True(t, tasks[0].IsCompleted)
}

func TestImportTasks_BadColumn(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.TitleColumn = "1"
	_, err := ImportTasks(context.Background(), newTestDB(t), cfg)
	assert.Error(t, err)
}

func TestParseDateCell(t *testing.T) {
	d, err := parseDateCell("45361")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", d.String())

	_, err = parseDateCell("")
	assert.Error(t, err)
}

func TestExportHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	err := ExportHistory(path, History{
		Totals: []models.DayTotals{
			{Date: "2024-03-02", Total: 1, Completed: 0},
			{Date: "2024-03-01", Total: 2, Completed: 2},
		},
		Moods: []models.DailyMood{
			{MoodDate: "2024-03-01", Mood: "☀️", Note: sql.NullString{String: "great", Valid: true}},
			{MoodDate: "2024-02-28", Mood: "⚡"},
		},
		Tasks: []models.Task{
			{TaskDate: "2024-03-01", Title: "read", IsCompleted: true},
			{TaskDate: "2024-03-02", Title: "walk"},
		},
		Achievements: []gateway.AchievementDetail{
			{ID: "first_task", Name: "First Steps", Icon: "🎯", Unlocked: true, UnlockedAt: "2024-03-01 08:00"},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDays, SheetTasks, SheetAchievements}, f.GetSheetList())

	days, err := f.GetRows(SheetDays)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, []string{"Date", "Total", "Completed", "Mood", "Note"}, days[0])
	assert.Equal(t, []string{"2024-02-28", "0", "0", "⚡"}, days[1][:4])
	assert.Equal(t, []string{"2024-03-01", "2", "2", "☀️", "great"}, days[2])
	assert.Equal(t, []string{"2024-03-02", "1", "0"}, days[3][:3])

	tasks, err := f.GetRows(SheetTasks)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01", "read", "yes"}, tasks[1])
}

func TestExportThenImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, ExportHistory(path, History{Tasks: []models.Task{
		{TaskDate: "2024-03-01", Title: "read", IsCompleted: true},
	}}))

	db := newTestDB(t)
	cfg := DefaultImportConfig()
	cfg.FilePath = path
	cfg.SheetName = SheetTasks
	res, err := ImportTasks(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}
