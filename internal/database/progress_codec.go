package database

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/example/dailyquest/internal/progress"
	"github.com/example/dailyquest/pkg/models"
)

// DecodeSnapshot turns a stored row into an engine snapshot. Corrupt collection
// blobs are replaced by empty ones; this never fails.
func DecodeSnapshot(row *models.GameProgress) progress.Snapshot {
	s := progress.NewSnapshot()
	if row == nil {
		return s
	}

	s.XP = nonNegative(row.XP)
	s.TotalCompleted = nonNegative(row.TotalCompleted)
	s.Streak = nonNegative(row.Streak)
	if row.LastActiveDate.Valid && row.LastActiveDate.String != "" {
		// Postgres drivers may hand back a full timestamp; only the date part matters.
		raw := row.LastActiveDate.String
		if len(raw) > len(progress.DateLayout) {
			raw = raw[:len(progress.DateLayout)]
		}
		if d, err := progress.ParseDate(raw); err == nil {
			s.LastActiveDate = d
		} else {
			log.Printf("database: bad last_active_date for %s, ignoring: %v", row.UserKey, err)
		}
	}

	if err := decodeBlob(row.DailyCompleted, &s.DailyCompleted); err != nil {
		log.Printf("database: corrupt daily_completed for %s, using empty: %v", row.UserKey, err)
		s.DailyCompleted = map[string]int{}
	}
	if err := decodeBlob(row.Achievements, &s.Achievements); err != nil {
		log.Printf("database: corrupt achievements for %s, using empty: %v", row.UserKey, err)
		s.Achievements = map[string]progress.Unlock{}
	}
	credited, err := decodeCredited(row.CreditedTaskIDs)
	if err != nil {
		log.Printf("database: corrupt credited_task_ids for %s, using empty: %v", row.UserKey, err)
		credited = map[string]string{}
	}
	s.Credited = credited

	return s
}

// EncodeSnapshot writes s into row, leaving the key and version alone.
func EncodeSnapshot(s progress.Snapshot, row *models.GameProgress) error {
	daily, err := json.Marshal(nonNilInts(s.DailyCompleted))
	if err != nil {
		return fmt.Errorf("encode daily_completed: %w", err)
	}
	achievements := s.Achievements
	if achievements == nil {
		achievements = map[string]progress.Unlock{}
	}
	ach, err := json.Marshal(achievements)
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	credited := s.Credited
	if credited == nil {
		credited = map[string]string{}
	}
	cred, err := json.Marshal(credited)
	if err != nil {
		return fmt.Errorf("encode credited_task_ids: %w", err)
	}

	row.XP = s.XP
	row.TotalCompleted = s.TotalCompleted
	row.Streak = s.Streak
	row.LastActiveDate.String = s.LastActiveDate.String()
	row.LastActiveDate.Valid = !s.LastActiveDate.IsZero()
	row.DailyCompleted = string(daily)
	row.Achievements = string(ach)
	row.CreditedTaskIDs = string(cred)
	return nil
}

func decodeBlob[T any](raw string, out *map[string]T) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*out = map[string]T{}
		return nil
	}
	m := map[string]T{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return err
	}
	*out = m
	return nil
}

// decodeCredited accepts both the object form {"id": "date"} and the older
// plain list of ids.
func decodeCredited(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, err
		}
		out := make(map[string]string, len(ids))
		for _, id := range ids {
			if id != "" {
				out[id] = ""
			}
		}
		return out, nil
	}
	var out map[string]string
	if err := decodeBlob(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nonNilInts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
