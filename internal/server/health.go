package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"csv-drop/internal/storage"
)

// Health is the body of GET /health.
type Health struct {
	Status    string    `json:"status"`
	Storage   string    `json:"storage"`
	Message   string    `json:"message,omitempty"`
	LatencyMs float64   `json:"latency_ms"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// rootHandler answers GET / with a fixed acknowledgement.
func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backend working"})
}

// healthHandler reports whether the upload store is reachable.
func healthHandler(store storage.Store, build BuildInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		err := store.Check(ctx)

		h := Health{
			Status:    "ok",
			Storage:   store.Kind(),
			LatencyMs: float64(time.Since(start).Microseconds()) / 1000,
			Version:   build.Version,
			Timestamp: time.Now().UTC(),
		}
		status := http.StatusOK
		if err != nil {
			h.Status = "unavailable"
			h.Message = "storage unavailable"
			status = http.StatusServiceUnavailable
			Warn("health_check_failed", map[string]any{
				"rid":     RequestIDFromContext(r.Context()),
				"storage": store.Kind(),
				"error":   err.Error(),
			})
		}
		writeJSON(w, status, h)
	}
}
