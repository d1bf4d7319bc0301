package handlers

import (
	"context"
	"net/http"
	"time"

	"nfl-pool-go/services"
)

// HealthHandler reports database and results feed reachability
type HealthHandler struct {
	pingDB func(ctx context.Context) error
	feedUp func() bool
}

// NewHealthHandler creates a health handler. feedUp may be nil.
func NewHealthHandler(pingDB func(ctx context.Context) error, feedUp func() bool) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, feedUp: feedUp}
}

// Health returns 503 when the database is unreachable. A feed outage only
// degrades the status since stored outcomes remain usable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok"}
	status, code := "ok", http.StatusOK

	if err := h.pingDB(ctx); err != nil {
		checks["database"] = err.Error()
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	if h.feedUp != nil {
		checks["feed"] = "ok"
		if !h.feedUp() {
			checks["feed"] = "unreachable"
			if code == http.StatusOK {
				status = "degraded"
			}
		}
	}

	writeJSON(w, code, map[string]interface{}{"status": status, "checks": checks})
}

// Teams handles GET /api/teams
func Teams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.ListTeams())
}
