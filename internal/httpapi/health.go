// internal/httpapi/health.go
package httpapi

import (
	"context"
	"net/http"
	"time"

	"roommate-finder/internal/common/errors"
)

const readyTimeout = 3 * time.Second

type healthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Time    string            `json:"time"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status:  "ok",
		Version: s.deps.Options.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady runs every dependency check; any failure makes the service unready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := healthStatus{
		Status:  "ready",
		Version: s.deps.Options.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Checks:  make(map[string]string, len(s.deps.Checks)),
	}
	code := http.StatusOK
	for _, check := range s.deps.Checks {
		if err := check.Fn(ctx); err != nil {
			status.Checks[check.Name] = err.Error()
			status.Status = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Checks[check.Name] = "ok"
	}
	writeJSON(w, code, status)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errors.NewRouteNotFoundError(r.URL.Path))
}
