package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// MonthParams holds a parsed month/year pair. Zero values mean "current".
type MonthParams struct {
	Month int
	Year  int
}

// parseMonthParams reads optional month and year query parameters. Absent
// parameters stay zero; present but malformed ones are an error.
func parseMonthParams(r *http.Request) (MonthParams, error) {
	var p MonthParams

	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return p, fmt.Errorf("invalid month %q", v)
		}
		p.Month = m
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1900 || y > 3000 {
			return p, fmt.Errorf("invalid year %q", v)
		}
		p.Year = y
	}

	// A month without a year (or vice versa) is ambiguous.
	if (p.Month == 0) != (p.Year == 0) {
		return p, errors.New("month and year must be provided together")
	}
	return p, nil
}

// parseMonthsParam reads the optional months window for historical queries.
func parseMonthsParam(r *http.Request, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("months"))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 60 {
		return 0, fmt.Errorf("invalid months %q", v)
	}
	return n, nil
}

// decodeJSON parses a request body into dst, rejecting unknown fields and
// oversized payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
