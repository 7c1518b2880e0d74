package http

import (
	"net/http"

	"duitku/internal/analytics"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	params, err := parseMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_period", err.Error())
		return
	}

	snap := s.snapshotFor(r, params)
	summary := analytics.Summarize(snap.Month, snap.Year, snap.Income, snap.Budgets, snap.Expenses)
	writeData(w, http.StatusOK, summary)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	months, err := parseMonthsParam(r, 12)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_months", err.Error())
		return
	}

	points := s.store.Historical(r.Context(), months)
	writeData(w, http.StatusOK, analytics.TrendDeltas(points))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	snap := s.store.Snapshot()
	summary := analytics.Summarize(snap.Month, snap.Year, snap.Income, snap.Budgets, snap.Expenses)
	trend := analytics.TrendDeltas(s.store.Historical(r.Context(), 6))

	recs := analytics.Recommend(summary, trend, snap.Assets, snap.Settings)
	writeData(w, http.StatusOK, recs)
}
