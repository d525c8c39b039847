package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/habits"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
)

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	type tierView struct {
		Tier       leveling.Tier `json:"tier"`
		UpperBound *float64      `json:"upper_bound"`
		Multiplier float64       `json:"multiplier"`
		Rationale  string        `json:"rationale"`
	}
	locale := r.URL.Query().Get("locale")
	var out []tierView
	for _, b := range leveling.Tiers() {
		v := tierView{Tier: b.Tier, Multiplier: b.Multiplier, Rationale: leveling.Message(locale, leveling.RationaleKey(b.Tier))}
		if !math.IsInf(b.Upper, 1) {
			upper := b.Upper
			v.UpperBound = &upper
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSuggestLevel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	freq := leveling.Frequency(q.Get("frequency"))
	if freq != "" && !freq.Valid() {
		writeError(w, http.StatusBadRequest, "unknown frequency: "+string(freq))
		return
	}
	duration, err := optionalFloat(q.Get("duration"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid duration")
		return
	}
	target, err := optionalFloat(q.Get("target_count"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target_count")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"level": habits.SuggestLevel(freq, duration, target),
	})
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type createUserRequest struct {
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Locale string `json:"locale"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	u, err := s.svc.CreateUser(r.Context(), req.Name, req.Level, req.Locale)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleSetUserLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int `json:"level"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := s.svc.SetUserLevel(r.Context(), userID, req.Level); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.handleGetUser(w, r)
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListHabits(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type createHabitRequest struct {
	Name             string             `json:"name"`
	Level            *int               `json:"level"`
	Frequency        leveling.Frequency `json:"frequency"`
	WorkloadPerCount float64            `json:"workload_per_count"`
	WorkloadUnit     string             `json:"workload_unit"`
	TargetCount      float64            `json:"target_count"`
	Locale           string             `json:"locale"`
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	res, err := s.svc.CreateHabit(r.Context(), habits.NewHabit{
		UserID:           chi.URLParam(r, "userID"),
		Name:             req.Name,
		Level:            req.Level,
		Frequency:        req.Frequency,
		WorkloadPerCount: req.WorkloadPerCount,
		WorkloadUnit:     req.WorkloadUnit,
		TargetCount:      req.TargetCount,
		Locale:           req.Locale,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleConsistency(w http.ResponseWriter, r *http.Request) {
	apply := r.URL.Query().Get("apply") == "true"
	report, err := s.svc.CheckConsistency(r.Context(), chi.URLParam(r, "userID"), apply)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	list, err := s.svc.Notifications(r.Context(), chi.URLParam(r, "userID"), q.Get("unread") == "true", limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleScanUser(w http.ResponseWriter, r *http.Request) {
	report, err := s.scanner.ScanUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	h, err := s.svc.GetHabit(r.Context(), chi.URLParam(r, "habitID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

type completionRequest struct {
	Actual *float64 `json:"actual"`
	Locale string   `json:"locale"`
}

func (s *Server) handleRecordCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Actual == nil {
		writeError(w, http.StatusBadRequest, "actual is required")
		return
	}
	res, err := s.svc.RecordCompletion(r.Context(), chi.URLParam(r, "habitID"), *req.Actual, req.Locale)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleCheckHabit(w http.ResponseWriter, r *http.Request) {
	check, err := s.svc.CheckHabit(r.Context(), chi.URLParam(r, "habitID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (s *Server) handleBabySteps(w http.ResponseWriter, r *http.Request) {
	plans, personalized, err := s.svc.BabyStepPlans(r.Context(), chi.URLParam(r, "habitID"), r.URL.Query().Get("locale"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plans":        plans,
		"personalized": personalized,
	})
}

func (s *Server) handleAdoptBabyStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetLevel int `json:"target_level"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h, err := s.svc.AdoptBabyStep(r.Context(), chi.URLParam(r, "habitID"), req.TargetLevel)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.svc.MarkNotificationRead(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
