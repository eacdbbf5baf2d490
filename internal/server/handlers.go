package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/example/dailyquest/internal/stats"
	"github.com/example/dailyquest/pkg/models"
)

const actionCompleteTask = "complete_task"

type moodView struct {
	Date string  `json:"date"`
	Mood string  `json:"mood"`
	Note *string `json:"note"`
}

func viewMood(m models.DailyMood) moodView {
	v := moodView{Date: m.MoodDate, Mood: m.Mood}
	if m.Note.Valid {
		note := m.Note.String
		v.Note = &note
	}
	return v
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	ov, err := s.game.Overview(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) postGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action string `json:"action"`
		TaskID string `json:"taskId"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Action != actionCompleteTask {
		writeErr(w, http.StatusBadRequest, "unknown action")
		return
	}

	res, err := s.game.CompleteTask(r.Context(), body.TaskID)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.planner.TasksOn(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type createTaskRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	task, err := s.planner.AddTask(r.Context(), body.Title, body.Date)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (s *Server) createTomorrowTask(w http.ResponseWriter, r *http.Request) {
	var body createTaskRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	task, err := s.planner.AddTomorrow(r.Context(), body.Title)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string `json:"id"`
		IsCompleted *bool  `json:"isCompleted"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(body.ID) == "" || body.IsCompleted == nil {
		writeErr(w, http.StatusBadRequest, "id and isCompleted are required")
		return
	}

	task, res, err := s.game.ToggleTask(r.Context(), body.ID, *body.IsCompleted)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	out := map[string]any{"task": task}
	if res != nil {
		out["game"] = res
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.planner.DeleteTask(r.Context(), body.ID); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// getMood answers ?date= with a single mood (null when none), ?days= with the
// recent moods and no parameter with every mood.
func (s *Server) getMood(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if date := q.Get("date"); date != "" {
		m, err := s.planner.MoodOn(r.Context(), date)
		if err != nil {
			if isNotFound(err) {
				writeJSON(w, http.StatusOK, map[string]any{"mood": nil})
				return
			}
			s.writeFailure(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"mood": viewMood(*m)})
		return
	}

	days := 0
	if raw := q.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErr(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	moods, err := s.planner.Moods(r.Context(), days)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	out := make([]moodView, 0, len(moods))
	for _, m := range moods {
		out = append(out, viewMood(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"moods": out})
}

func (s *Server) postMood(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
		Mood string `json:"mood"`
		Note string `json:"note"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := s.planner.RecordMood(r.Context(), body.Date, body.Mood, body.Note)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "mood": viewMood(*m)})
}

func (s *Server) moodCurve(w http.ResponseWriter, r *http.Request) {
	moods, err := s.planner.Moods(r.Context(), stats.CurveDays)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Curve(moods, s.game.Today(), stats.CurveDays))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.planner.DailyTotals(r.Context(), stats.SummaryDays)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Summarize(totals, s.game.Today()))
}

func (s *Server) getContribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	totals, err := s.planner.DailyTotals(ctx, stats.HeatmapDays)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	moods, err := s.planner.Moods(ctx, stats.HeatmapDays)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Contribution(totals, moods, s.game.Today()))
}
