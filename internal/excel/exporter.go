package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/example/dailyquest/internal/gateway"
	"github.com/example/dailyquest/pkg/models"
)

// Sheet names of an exported workbook.
const (
	SheetDays         = "Days"
	SheetTasks        = "Tasks"
	SheetAchievements = "Achievements"
)

// History is everything written to an export workbook.
type History struct {
	Totals       []models.DayTotals
	Moods        []models.DailyMood
	Tasks        []models.Task
	Achievements []gateway.AchievementDetail
}

// ExportHistory writes the planner history to an XLSX file at path. The Tasks
// sheet uses the same column layout ImportTasks reads by default.
func ExportHistory(path string, h History) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	f.SetSheetName(f.GetSheetName(0), SheetDays)
	for _, name := range []string{SheetTasks, SheetAchievements} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeSheet(f, SheetDays, header, []any{"Date", "Total", "Completed", "Mood", "Note"}, dayRows(h)); err != nil {
		return err
	}

	taskRows := make([][]any, 0, len(h.Tasks))
	for _, t := range h.Tasks {
		done := "no"
		if t.IsCompleted {
			done = "yes"
		}
		taskRows = append(taskRows, []any{t.TaskDate, t.Title, done})
	}
	if err := writeSheet(f, SheetTasks, header, []any{"Date", "Title", "Completed"}, taskRows); err != nil {
		return err
	}

	achRows := make([][]any, 0, len(h.Achievements))
	for _, a := range h.Achievements {
		achRows = append(achRows, []any{a.Icon, a.Name, a.Description, a.Unlocked, a.UnlockedAt})
	}
	if err := writeSheet(f, SheetAchievements, header, []any{"Icon", "Name", "Description", "Unlocked", "Unlocked at"}, achRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// dayRows merges task totals and moods by date, oldest first.
func dayRows(h History) [][]any {
	type day struct {
		total, completed int
		mood, note       string
	}
	byDate := map[string]*day{}
	get := func(date string) *day {
		d, ok := byDate[date]
		if !ok {
			d = &day{}
			byDate[date] = d
		}
		return d
	}
	for _, t := range h.Totals {
		d := get(t.Date)
		d.total += t.Total
		d.completed += t.Completed
	}
	for _, m := range h.Moods {
		d := get(m.MoodDate)
		d.mood = m.Mood
		d.note = m.NoteText()
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	rows := make([][]any, 0, len(dates))
	for _, date := range dates {
		d := byDate[date]
		rows = append(rows, []any{date, d.total, d.completed, d.mood, d.note})
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, style int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
