package http

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseMonthParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    MonthParams
		wantErr bool
	}{
		{"absent means current", "", MonthParams{}, false},
		{"explicit period", "month=6&year=2025", MonthParams{Month: 6, Year: 2025}, false},
		{"month thirteen", "month=13&year=2025", MonthParams{}, true},
		{"month zero", "month=0&year=2025", MonthParams{}, true},
		{"year out of range", "month=6&year=1500", MonthParams{}, true},
		{"non-numeric month", "month=june&year=2025", MonthParams{}, true},
		{"month without year", "month=6", MonthParams{}, true},
		{"year without month", "year=2025", MonthParams{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/sheets?"+tt.query, nil)
			got, err := parseMonthParams(r)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseMonthParams(%q) succeeded, want error", tt.query)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMonthParams(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Fatalf("parseMonthParams(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseMonthsParam(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{"default applies", "", 12, false},
		{"explicit window", "months=6", 6, false},
		{"zero rejected", "months=0", 0, true},
		{"over cap rejected", "months=61", 0, true},
		{"garbage rejected", "months=all", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/sheets?"+tt.query, nil)
			got, err := parseMonthsParam(r, 12)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseMonthsParam(%q) succeeded, want error", tt.query)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMonthsParam(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Fatalf("parseMonthsParam(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid object", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"kopi"}`))
		w := httptest.NewRecorder()
		var p payload
		if err := decodeJSON(w, r, &p); err != nil {
			t.Fatalf("decodeJSON: %v", err)
		}
		if p.Name != "kopi" {
			t.Fatalf("Name = %q, want kopi", p.Name)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"kopi","extra":1}`))
		w := httptest.NewRecorder()
		var p payload
		if err := decodeJSON(w, r, &p); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("trailing object rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
		w := httptest.NewRecorder()
		var p payload
		if err := decodeJSON(w, r, &p); err == nil {
			t.Fatal("expected error for second JSON value")
		}
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{`))
		w := httptest.NewRecorder()
		var p payload
		if err := decodeJSON(w, r, &p); err == nil {
			t.Fatal("expected error for truncated JSON")
		}
	})
}
