package http

import (
	"encoding/json"
	"net/http"

	"duitku/internal/core"
	"duitku/internal/store"
)

// handleSheets multiplexes the spreadsheet surface on the type query
// parameter, mirroring how the dashboard fetches its tabs.
func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleSheetsGet(w, r)
	case http.MethodPost:
		s.handleSheetsPost(w, r)
	case http.MethodPut:
		s.handleSheetsPut(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT")
	}
}

func (s *Server) handleSheetsGet(w http.ResponseWriter, r *http.Request) {
	params, err := parseMonthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_period", err.Error())
		return
	}

	snap := s.snapshotFor(r, params)

	switch kind := r.URL.Query().Get("type"); kind {
	case "", "all":
		writeData(w, http.StatusOK, snap)
	case "income":
		writeData(w, http.StatusOK, snap.Income)
	case "budget":
		writeData(w, http.StatusOK, snap.Budgets)
	case "expenses":
		writeData(w, http.StatusOK, snap.Expenses)
	case "assets":
		writeData(w, http.StatusOK, snap.Assets)
	case "accounts":
		writeData(w, http.StatusOK, snap.Accounts)
	case "settings":
		writeData(w, http.StatusOK, snap.Settings)
	case "historical":
		months, err := parseMonthsParam(r, 12)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_months", err.Error())
			return
		}
		writeData(w, http.StatusOK, s.store.Historical(r.Context(), months))
	default:
		writeError(w, http.StatusBadRequest, "invalid_type", "unknown type "+kind)
	}
}

// snapshotFor serves the live snapshot for the current (or unspecified)
// period and a cached side-fetch for any other month.
func (s *Server) snapshotFor(r *http.Request, params MonthParams) store.Snapshot {
	snap := s.store.Snapshot()
	if params.Month == 0 || (params.Month == snap.Month && params.Year == snap.Year) {
		return snap
	}
	return s.store.Period(r.Context(), params.Month, params.Year)
}

// writeRequest is the body envelope for POST and PUT: the record kind plus
// the kind-specific payload.
type writeRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *Server) handleSheetsPost(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	switch req.Type {
	case "expense":
		var e core.Expense
		if err := json.Unmarshal(req.Data, &e); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "malformed expense data: "+err.Error())
			return
		}
		saved, err := s.records.AddExpense(r.Context(), e)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
			return
		}
		s.store.ApplyExpense(saved)
		// Accepted, not created: the sheet write happens asynchronously.
		writeData(w, http.StatusAccepted, saved)

	case "income":
		var in core.MonthlyIncome
		if err := json.Unmarshal(req.Data, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "malformed income data: "+err.Error())
			return
		}
		saved, err := s.records.AddIncome(r.Context(), in)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
			return
		}
		s.store.ApplyIncome(saved)
		writeData(w, http.StatusAccepted, saved)

	default:
		writeError(w, http.StatusBadRequest, "invalid_type", "POST supports type expense or income")
	}
}

type budgetUpdateData struct {
	Month      int                   `json:"month"`
	Year       int                   `json:"year"`
	Categories []core.BudgetCategory `json:"categories"`
}

func (s *Server) handleSheetsPut(w http.ResponseWriter, r *http.Request) {
	var req writeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	switch req.Type {
	case "budget":
		var upd budgetUpdateData
		if err := json.Unmarshal(req.Data, &upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "malformed budget data: "+err.Error())
			return
		}
		if upd.Month < 1 || upd.Month > 12 {
			writeError(w, http.StatusBadRequest, "invalid_period", "month must be 1-12")
			return
		}
		if err := s.records.UpdateBudgets(r.Context(), upd.Month, upd.Year, upd.Categories); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
			return
		}
		s.store.ReplaceBudgets(upd.Categories)
		writeData(w, http.StatusAccepted, upd.Categories)

	case "assets":
		var assets []core.Asset
		if err := json.Unmarshal(req.Data, &assets); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "malformed asset data: "+err.Error())
			return
		}
		if err := s.records.UpdateAssets(r.Context(), assets); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
			return
		}
		s.store.ReplaceAssets(assets)
		writeData(w, http.StatusAccepted, assets)

	default:
		writeError(w, http.StatusBadRequest, "invalid_type", "PUT supports type budget or assets")
	}
}
