// Package http exposes the JSON API: sheet data, analytics, and the demo
// login. All /api/sheets and /api/analytics routes sit behind the session
// guard; health probes and login do not.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"duitku/internal/auth"
	"duitku/internal/middleware/ratelimit"
	"duitku/internal/middleware/security"
	"duitku/internal/middleware/trace"
	"duitku/internal/services"
	"duitku/internal/store"
)

type Server struct {
	http.Server

	store   *store.Store
	records *services.RecordService
	auth    *auth.Service

	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	headers  *security.HeadersMiddleware
	started  time.Time
	demoMode bool

	shutdownOnce sync.Once
}

func NewServer(addr string, st *store.Store, records *services.RecordService, authsvc *auth.Service, demoMode bool) *Server {
	s := &Server{
		store:    st,
		records:  records,
		auth:     authsvc,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:   trace.NewMiddleware(extractClientIP),
		headers:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		started:  time.Now(),
		demoMode: demoMode,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/session", s.handleSession)
	mux.HandleFunc("/api/sheets", s.handleSheets)
	mux.HandleFunc("/api/analytics/summary", s.handleSummary)
	mux.HandleFunc("/api/analytics/trends", s.handleTrends)
	mux.HandleFunc("/api/analytics/recommendations", s.handleRecommendations)

	guard := authsvc.Guard("/api/sheets", "/api/analytics", "/api/auth/session")
	limited := s.limiter.Middleware(extractClientIP, nil)

	var handler http.Handler = mux
	handler = guard(handler)
	handler = limited(handler)
	handler = s.tracer.Middleware(handler)
	handler = s.headers.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown stops the listener and the limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// extractClientIP prefers the leftmost X-Forwarded-For hop, falling back to
// the socket address.
func extractClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
		"demo_mode": s.demoMode,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap.LoadedAt.IsZero() && s.store.Loading() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "initial data load in progress")
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"loaded_at": snap.LoadedAt.Format(time.RFC3339),
		"requests":  s.tracer.TotalRequests(),
	})
}

func logHandlerError(r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg,
		"error", err,
		"request_id", trace.GetRequestID(r.Context()),
		"path", r.URL.Path)
}
