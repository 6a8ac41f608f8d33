package api

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-scanner/internal/journal"
	"github.com/nerrad567/gray-logic-scanner/internal/notifier"
	"github.com/nerrad567/gray-logic-scanner/internal/scanner"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/metrics", s.handleMetrics)

		r.Route("/scans", func(r chi.Router) {
			r.Get("/", s.handleListScans)
			r.Get("/summary", s.handleScanSummary)
		})
	})

	return r
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components"`
}

// handleHealth reports the scanner loop and every enabled infrastructure
// component. Any failing component turns the response into a 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     "ok",
		Version:    s.version,
		Components: make(map[string]string, len(s.checks)+1),
	}

	if s.scanner.Status().Running {
		resp.Components["scanner"] = "ok"
	} else {
		resp.Components["scanner"] = "stopped"
		resp.Status = "degraded"
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := s.checks[name].HealthCheck(ctx)
		cancel()
		if err != nil {
			resp.Components[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	scanner.Status
	Endpoint string `json:"endpoint"`
	Version  string `json:"version"`
}

// handleStatus returns the endpoint, the last accepted card and the loop counters.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:   s.scanner.Status(),
		Endpoint: s.endpoint,
		Version:  s.version,
	})
}

// handleListScans returns paginated journal entries, newest first.
//
// Query parameters:
//   - outcome: accepted, rejected, invalid_url, unexpected, transport_error
//   - game_id: filter by game
//   - limit: max results (default 50, max 500)
//   - offset: pagination offset
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "scan journal not enabled")
		return
	}

	q := r.URL.Query()
	filter := journal.Filter{
		GameID:  q.Get("game_id"),
		Outcome: q.Get("outcome"),
	}

	if filter.Outcome != "" && !validOutcome(filter.Outcome) {
		writeBadRequest(w, "unknown outcome: "+filter.Outcome)
		return
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := s.journal.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list scans", "error", err)
		writeInternalError(w, "failed to list scans")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleScanSummary returns the number of journal entries per outcome.
func (s *Server) handleScanSummary(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "scan journal not enabled")
		return
	}

	counts, err := s.journal.CountByOutcome(r.Context())
	if err != nil {
		s.logger.Error("failed to count scans", "error", err)
		writeInternalError(w, "failed to count scans")
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":      total,
		"by_outcome": counts,
	})
}

func validOutcome(o string) bool {
	switch notifier.Outcome(o) {
	case notifier.OutcomeAccepted, notifier.OutcomeRejected, notifier.OutcomeInvalidURL,
		notifier.OutcomeUnexpected, notifier.OutcomeTransportError:
		return true
	}
	return false
}
