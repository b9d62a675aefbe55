// Package gatewaytest provides an in-process fake fitness backend for
// gateway and view tests. Fixtures are mutable per test; any route can
// be overridden to simulate failures.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fitpulse/fitpulse/internal/gateway"
	"github.com/fitpulse/fitpulse/internal/nutrition"
	"github.com/fitpulse/fitpulse/internal/report"
	"github.com/fitpulse/fitpulse/internal/trend"
)

// Server is a fake fitness backend.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Fixtures served by the default handlers. Tests mutate these
	// directly before issuing requests.
	Plan           nutrition.Plan
	Foods          []nutrition.Food
	TodayLogs      []nutrition.FoodLog
	WeightLogs     []trend.WeightLog
	WeightTrend    trend.WeightTrend
	CalorieHistory trend.CalorieHistory
	DailyReports   map[string]report.DailyReport
	InjuryRisk     report.InjuryRisk
	Profile        gateway.Profile
	Conversations  []gateway.Conversation
	Messages       map[string][]gateway.Message

	// RequireToken rejects unauthenticated requests with 401 when set.
	RequireToken string

	// failures maps "METHOD path-prefix" to a forced status code.
	failures map[string]int
}

// New starts a fake backend with empty fixtures.
func New() *Server {
	s := &Server{
		DailyReports: make(map[string]report.DailyReport),
		Messages:     make(map[string][]gateway.Message),
		failures:     make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.authAndFailures)

	r.Get("/nutrition/plan", s.serveJSON(func() any { return s.Plan }))
	r.Post("/nutrition/calculate", s.serveJSON(func() any { return s.Plan }))
	r.Get("/foods/search", s.handleSearchFood)
	r.Post("/nutrition/logs", s.handleLogFood)
	r.Delete("/nutrition/logs/{logID}", s.handleDeleteLog)
	r.Get("/nutrition/logs/today", s.serveJSON(func() any { return s.TodayLogs }))
	r.Get("/nutrition/history", s.serveJSON(func() any { return s.CalorieHistory }))
	r.Post("/weight/logs", s.handleLogWeight)
	r.Get("/weight/logs", s.serveJSON(func() any { return s.WeightLogs }))
	r.Get("/weight/trend", s.serveJSON(func() any { return s.WeightTrend }))
	r.Get("/reports/daily", s.handleDailyReport)
	r.Get("/injury-risk", s.serveJSON(func() any { return s.InjuryRisk }))
	r.Get("/users/me", s.serveJSON(func() any { return s.Profile }))
	r.Get("/conversations", s.serveJSON(func() any { return s.Conversations }))
	r.Get("/conversations/{conversationID}/messages", s.handleMessages)

	s.Server = httptest.NewServer(r)
	return s
}

// Fail forces a status code for every request matching method+path
// until cleared. Path matching is on the request path as-is.
func (s *Server) Fail(method, path string, statusCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = statusCode
}

// ClearFailures resets all forced failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]int)
}

func (s *Server) authAndFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		code, forced := s.failures[r.Method+" "+r.URL.Path]
		token := s.RequireToken
		s.mu.Unlock()

		if forced {
			writeError(w, code, "forced_failure", "test-injected failure")
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) serveJSON(fixture func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, fixture())
	}
}

func (s *Server) handleSearchFood(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "empty_query", "q is required")
		return
	}
	writeJSON(w, http.StatusOK, s.Foods)
}

func (s *Server) handleLogFood(w http.ResponseWriter, r *http.Request) {
	var req gateway.LogFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var food nutrition.Food
	for _, f := range s.Foods {
		if f.ID == req.FoodID {
			food = f
			break
		}
	}

	log := nutrition.FoodLog{
		ID:       "log_" + uuid.New().String()[:8],
		FoodID:   req.FoodID,
		Food:     food,
		Servings: req.Servings,
		MealType: req.MealType,
		Date:     req.Date,
	}
	s.TodayLogs = append(s.TodayLogs, log)
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	logID := chi.URLParam(r, "logID")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, log := range s.TodayLogs {
		if log.ID == logID {
			s.TodayLogs = append(s.TodayLogs[:i], s.TodayLogs[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "not_found", "log not found")
}

func (s *Server) handleLogWeight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weight float64 `json:"weight"`
		Note   string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Weight <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "invalid_weight", "weight must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := trend.WeightLog{
		ID:     "wl_" + strconv.Itoa(len(s.WeightLogs)+1),
		Weight: req.Weight,
		Note:   req.Note,
	}
	s.WeightLogs = append(s.WeightLogs, log)
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := r.URL.Query().Get("date")
	rep, ok := s.DailyReports[date]
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no report for "+date)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversationID := chi.URLParam(r, "conversationID")
	writeJSON(w, http.StatusOK, s.Messages[conversationID])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
