package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLogin_RequiresCredentials(t *testing.T) {
	s := NewService("secret", time.Hour)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"both present", "user@example.com", "pw", false},
		{"empty email", "", "pw", true},
		{"empty password", "user@example.com", "", true},
		{"whitespace only", "   ", "pw", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := s.Login(tt.email, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrMissingCredentials) {
					t.Fatalf("expected ErrMissingCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token == "" {
				t.Fatal("expected a token")
			}
		})
	}
}

func TestValidateToken_RoundTrip(t *testing.T) {
	s := NewService("secret", time.Hour)

	token, err := s.Login("user@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("claims.Email = %q", claims.Email)
	}
	if !claims.Demo {
		t.Error("expected demo claim")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	token, err := issuer.Login("user@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := NewServiceWithClock("secret", time.Hour, clock)

	token, err := s.Login("user@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := s.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestGuard(t *testing.T) {
	s := NewService("secret", time.Hour)
	token, err := s.Login("user@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}

	var sawClaims *Claims
	handler := s.Guard("/api/sheets", "/api/analytics")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"unprotected path without token", "/api/auth/login", "", http.StatusOK},
		{"protected path without token", "/api/sheets", "", http.StatusUnauthorized},
		{"protected path with bad token", "/api/sheets", "Bearer nonsense", http.StatusUnauthorized},
		{"protected path with token", "/api/sheets", "Bearer " + token, http.StatusOK},
		{"protected subtree", "/api/analytics/summary", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawClaims = nil
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && tt.authHeader != "" && sawClaims == nil {
				t.Error("expected claims in context")
			}
		})
	}
}
