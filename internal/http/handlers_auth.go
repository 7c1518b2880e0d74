package http

import (
	"errors"
	"net/http"

	"duitku/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			writeError(w, http.StatusBadRequest, "missing_credentials", err.Error())
			return
		}
		logHandlerError(r, "Login failed", err)
		writeError(w, http.StatusInternalServerError, "login_failed", "could not issue session token")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"token": token,
		"email": req.Email,
		"demo":  true,
	})
}

// handleSession echoes the verified claims; the guard has already rejected
// anonymous callers.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no session")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"email":     claims.Email,
		"demo":      claims.Demo,
		"expiresAt": claims.ExpiresAt,
	})
}
