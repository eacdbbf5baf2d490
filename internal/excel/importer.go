package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/xuri/excelize/v2"

	"github.com/example/dailyquest/internal/database"
	"github.com/example/dailyquest/internal/progress"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath        string // Path to the Excel or CSV file
	SheetName       string // Name of the sheet to import; empty means the first sheet
	DateColumn      string // Column with the task date
	TitleColumn     string // Column with the task title
	CompletedColumn string // Column with the completion flag, optional
	StartRow        int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		DateColumn:      "A",
		TitleColumn:     "B",
		CompletedColumn: "C",
		StartRow:        2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

type columns struct {
	date, title, completed int
}

// ImportTasks imports tasks from an Excel or CSV file in one transaction.
// Rows that fail validation are reported in the result and do not abort the
// import; rows matching an existing task (same day and title) are skipped.
// Imported completions are history only and earn no XP.
func ImportTasks(ctx context.Context, db *sqlx.DB, config ImportConfig) (*ImportResult, error) {
	cols, err := resolveColumns(config)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	err = database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		repo := database.NewTaskRepository(tx)
		existing := map[string]map[string]bool{}

		for i, row := range rows {
			rowNum := i + 1
			if rowNum < config.StartRow || blank(row) {
				continue
			}
			result.TotalProcessed++

			date, title, done, err := parseRow(row, cols)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}

			titles, ok := existing[date]
			if !ok {
				tasks, err := repo.ListByDate(ctx, date)
				if err != nil {
					return err
				}
				titles = make(map[string]bool, len(tasks))
				for _, t := range tasks {
					titles[strings.ToLower(t.Title)] = true
				}
				existing[date] = titles
			}
			if titles[strings.ToLower(title)] {
				result.Skipped++
				continue
			}

			task, err := repo.Create(ctx, title, date)
			if err != nil {
				return err
			}
			if done {
				if _, err := repo.SetCompleted(ctx, task.ID, true); err != nil {
					return err
				}
			}
			titles[strings.ToLower(title)] = true
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import tasks: %w", err)
	}
	return result, nil
}

func resolveColumns(config ImportConfig) (columns, error) {
	var cols columns
	var err error
	if cols.date, err = columnIndex(config.DateColumn); err != nil {
		return cols, fmt.Errorf("date column: %w", err)
	}
	if cols.title, err = columnIndex(config.TitleColumn); err != nil {
		return cols, fmt.Errorf("title column: %w", err)
	}
	cols.completed = -1
	if config.CompletedColumn != "" {
		if cols.completed, err = columnIndex(config.CompletedColumn); err != nil {
			return cols, fmt.Errorf("completed column: %w", err)
		}
	}
	return cols, nil
}

// columnIndex converts an Excel column name ("A", "AB") to a 0-based index.
func columnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, cols columns) (date, title string, done bool, err error) {
	title = cell(row, cols.title)
	if title == "" {
		return "", "", false, errors.New("title cannot be empty")
	}
	d, err := parseDateCell(cell(row, cols.date))
	if err != nil {
		return "", "", false, err
	}
	return d.String(), title, parseBool(cell(row, cols.completed)), nil
}

// parseDateCell accepts ISO dates, ISO timestamps and Excel date serials.
func parseDateCell(s string) (progress.Date, error) {
	if s == "" {
		return progress.Date{}, errors.New("date cannot be empty")
	}
	if d, err := progress.ParseDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return progress.DateOf(t), nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return progress.DateOf(t), nil
		}
	}
	return progress.Date{}, fmt.Errorf("invalid date %q", s)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "x", "done", "✓", "✅":
		return true
	}
	return false
}
