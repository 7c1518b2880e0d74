package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"duitku/internal/auth"
	"duitku/internal/core"
	"duitku/internal/services"
	"duitku/internal/sheets"
	"duitku/internal/sheets/demo"
	"duitku/internal/store"
)

var testClock = func() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	provider := demo.NewWithClock(testClock)
	svc := sheets.NewService(provider, nil, nil)
	st := store.New(svc, nil)
	records := services.NewRecordService(nil, nil, svc)
	authsvc := auth.NewService("test-secret", time.Hour)

	srv := NewServer(":0", st, records, authsvc, true)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	if err := st.Load(context.Background(), 6, 2025); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, srv *Server) string {
	t.Helper()

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "demo@example.com",
		"password": "demo",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Token == "" {
		t.Fatal("empty token")
	}
	return resp.Data.Token
}

func TestHealthEndpointsAreOpen(t *testing.T) {
	srv := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d", rec.Code)
	}
}

func TestSheetsRequireSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/sheets", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "unauthorized" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "", "password": "x",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetSheets_Income(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/sheets?type=income", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data []core.MonthlyIncome `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) == 0 {
		t.Fatal("expected demo income rows")
	}
	if resp.Data[0].Month != 6 || resp.Data[0].Year != 2025 {
		t.Errorf("row period = %d/%d, want 6/2025", resp.Data[0].Month, resp.Data[0].Year)
	}
}

func TestGetSheets_All(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/sheets?type=all", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data store.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data.Income) == 0 || len(resp.Data.Budgets) == 0 || len(resp.Data.Expenses) == 0 {
		t.Errorf("snapshot incomplete: %+v", resp.Data)
	}
	if resp.Data.Settings.CurrencySymbol != "Rp" {
		t.Errorf("settings symbol = %q", resp.Data.Settings.CurrencySymbol)
	}
}

func TestGetSheets_BadParams(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown type", "/api/sheets?type=nonsense"},
		{"bad month", "/api/sheets?month=13&year=2025"},
		{"month without year", "/api/sheets?month=6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doRequest(t, srv, http.MethodGet, tt.target, token, nil); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestPostExpense_AcceptedAndVisible(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	expense := core.Expense{
		Date:        "2025-06-20",
		Description: "Servis motor",
		Amount:      350000,
		Category:    "Transportasi",
		Month:       6,
		Year:        2025,
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/sheets", token, map[string]any{
		"type": "expense",
		"data": expense,
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data core.Expense `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.ID == "" {
		t.Error("accepted expense should carry an id")
	}

	list := doRequest(t, srv, http.MethodGet, "/api/sheets?type=expenses", token, nil)
	var listResp struct {
		Data []core.Expense `json:"data"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &listResp); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range listResp.Data {
		if e.Description == "Servis motor" {
			found = true
		}
	}
	if !found {
		t.Error("posted expense not visible in subsequent read")
	}
}

func TestPostExpense_ValidationFailure(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	bad := core.Expense{Date: "2025-06-20", Description: "x", Amount: -5, Category: "A", Month: 6, Year: 2025}
	rec := doRequest(t, srv, http.MethodPost, "/api/sheets", token, map[string]any{
		"type": "expense",
		"data": bad,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestPutBudgets_ReplacesList(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodPut, "/api/sheets", token, map[string]any{
		"type": "budget",
		"data": budgetUpdateData{
			Month: 6,
			Year:  2025,
			Categories: []core.BudgetCategory{
				{Name: "Makanan", Type: core.Needs, Allocation: 3500000, Month: 6, Year: 2025},
			},
		},
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	list := doRequest(t, srv, http.MethodGet, "/api/sheets?type=budget", token, nil)
	var listResp struct {
		Data []core.BudgetCategory `json:"data"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &listResp); err != nil {
		t.Fatal(err)
	}
	if len(listResp.Data) != 1 || listResp.Data[0].Allocation != 3500000 {
		t.Errorf("budget list not replaced: %+v", listResp.Data)
	}
}

func TestPostUnknownType(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/sheets", token, map[string]any{
		"type": "budget",
		"data": map[string]any{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPutAssets_ReplacesList(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodPut, "/api/sheets", token, map[string]any{
		"type": "assets",
		"data": []core.Asset{
			{Name: "Deposito Mandiri", Type: core.NonLiquid, Category: "deposit", CurrentValue: 60000000},
		},
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	list := doRequest(t, srv, http.MethodGet, "/api/sheets?type=assets", token, nil)
	var listResp struct {
		Data []core.Asset `json:"data"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &listResp); err != nil {
		t.Fatal(err)
	}
	if len(listResp.Data) != 1 || listResp.Data[0].Name != "Deposito Mandiri" {
		t.Errorf("asset list not replaced: %+v", listResp.Data)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/analytics/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			TotalIncome   float64 `json:"totalIncome"`
			TotalExpenses float64 `json:"totalExpenses"`
			SavingsRate   float64 `json:"savingsRate"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.TotalIncome <= 0 || resp.Data.TotalExpenses <= 0 {
		t.Errorf("summary totals empty: %+v", resp.Data)
	}
	if resp.Data.SavingsRate <= 0 || resp.Data.SavingsRate >= 100 {
		t.Errorf("savings rate out of range: %v", resp.Data.SavingsRate)
	}
}

func TestAnalyticsRecommendations(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/analytics/recommendations", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// Demo data has a very high savings rate, so the healthy-savings rule
	// must fire.
	found := false
	for _, r := range resp.Data {
		if r.Code == "healthy-savings-rate" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected healthy-savings-rate in %+v", resp.Data)
	}
}

func TestSessionEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/auth/session", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Email != "demo@example.com" {
		t.Errorf("email = %q", resp.Data.Email)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	token := loginToken(t, srv)

	rec := doRequest(t, srv, http.MethodDelete, "/api/sheets", token, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow == "" {
		t.Error("missing Allow header")
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
