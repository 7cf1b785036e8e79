// Package health provides health check endpoints for the API.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/worklog-hq/worklog/pkg/config"
)

// checkTimeout bounds how long a readiness probe waits on dependencies.
const checkTimeout = 5 * time.Second

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Handler serves the health, liveness, and readiness endpoints.
type Handler struct {
	mu       sync.RWMutex
	checkers []Checker
	started  time.Time
}

// NewHandler creates a new health handler.
func NewHandler() *Handler {
	return &Handler{started: time.Now()}
}

// RegisterChecker adds a dependency checker.
func (h *Handler) RegisterChecker(c Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, c)
}

// Status is the wire shape of a probe response.
type Status struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	UptimeSeconds int64             `json:"uptime_seconds,omitempty"`
	Checks        map[string]string `json:"checks,omitempty"`
}

func writeStatus(w http.ResponseWriter, code int, s Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(s)
}

// Health reports process health with version and uptime. This is the
// human-facing endpoint; probes use Live and Ready.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, Status{
		Status:        "ok",
		Version:       config.Version,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

// Live is the liveness probe: 200 whenever the process is running.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, Status{Status: "live"})
}

// Ready is the readiness probe: 200 only when every registered
// dependency answers within the check timeout.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	h.mu.RLock()
	checkers := make([]Checker, len(h.checkers))
	copy(checkers, h.checkers)
	h.mu.RUnlock()

	checks := make(map[string]string, len(checkers))
	ready := true
	for _, c := range checkers {
		if err := c.Check(ctx); err != nil {
			checks[c.Name()] = err.Error()
			ready = false
			continue
		}
		checks[c.Name()] = "ok"
	}

	if !ready {
		writeStatus(w, http.StatusServiceUnavailable, Status{Status: "not_ready", Checks: checks})
		return
	}
	writeStatus(w, http.StatusOK, Status{Status: "ready", Checks: checks})
}
