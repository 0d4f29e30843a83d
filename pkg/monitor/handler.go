package monitor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the monitor's read API for operational tooling. It
// is not meant for request-path code.
//
//	GET  /health               current health snapshot
//	GET  /metrics/flows        completion rates and recent flows
//	GET  /metrics/performance  per-operation duration stats
//	GET  /metrics/violations   rolling-window violation aggregates
//	GET  /alerts               alerts (?active=true for unresolved only)
//	POST /alerts/{id}/ack      acknowledge an alert
func Handler(m *Monitor) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		h := m.HealthSnapshot()
		status := http.StatusOK
		if h.Status == HealthCritical {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, h)
	})

	r.Get("/metrics/flows", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"completion_rates": m.CompletionRates(),
			"recent":           m.RecentFlows(),
		})
	})

	r.Get("/metrics/performance", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, m.Performance())
	})

	r.Get("/metrics/violations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, m.Violations())
	})

	r.Get("/alerts", func(w http.ResponseWriter, req *http.Request) {
		activeOnly := req.URL.Query().Get("active") == "true"
		writeJSON(w, http.StatusOK, m.Alerts(activeOnly))
	})

	r.Post("/alerts/{id}/ack", func(w http.ResponseWriter, req *http.Request) {
		id, err := uuid.Parse(chi.URLParam(req, "id"))
		if err != nil {
			http.Error(w, "invalid alert id", http.StatusBadRequest)
			return
		}

		var body struct {
			By string `json:"by"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.By == "" {
			http.Error(w, "missing acknowledger", http.StatusBadRequest)
			return
		}

		alert, err := m.Acknowledge(id, body.By)
		if err != nil {
			if errors.Is(err, ErrAlertNotFound) {
				http.Error(w, "alert not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, alert)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
