package fleetarchiver

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
)

// handleTrigger runs one archive cycle per POST. The response mirrors the
// cycle outcome: 500 only when the fetch itself failed, 200 otherwise,
// with per-flow results in the body.
func handleTrigger(runner *Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, buildErrorPayload("method not allowed"))
			return
		}
		// A cycle that started runs to completion even when the caller
		// hangs up mid-request.
		rep := runner.RunCycle(context.WithoutCancel(r.Context()))
		if !rep.FetchOK {
			writeJSON(w, http.StatusInternalServerError, buildErrorPayload(rep.FetchErr.Error()))
			return
		}
		writeJSON(w, http.StatusOK, buildCyclePayload(rep))
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
}
