package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// Handler exposes HTTP handlers for health endpoints. The pricing engine has
// no external dependencies, so readiness reports build facts instead of
// dependency probes.
type Handler struct {
	Version   string
	Started   time.Time
	Provinces int
	Tiers     int
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness along with registry sizes for quick sanity checks.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{
		"status":    "ok",
		"version":   h.Version,
		"provinces": h.Provinces,
		"tiers":     h.Tiers,
	}
	if !h.Started.IsZero() {
		status["uptime_s"] = int64(time.Since(h.Started).Seconds())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(status)
}
