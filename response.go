package fleetarchiver

import (
	"net/http"

	json "github.com/goccy/go-json"
)

type flowSummary struct {
	Flow     string `json:"flow"`
	Records  int    `json:"records"`
	Skipped  int    `json:"skipped,omitempty"`
	StoredAt string `json:"stored_at,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

type cycleResponse struct {
	Status  string        `json:"status"`
	CycleID string        `json:"cycle_id"`
	Records int           `json:"records"`
	FetchMS int64         `json:"fetch_ms"`
	Flows   []flowSummary `json:"flows"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// buildCyclePayload renders the success envelope for a completed cycle.
// Per-flow failures ride along in the body; they do not change the
// overall status.
func buildCyclePayload(rep *CycleReport) []byte {
	resp := cycleResponse{
		Status:  "success",
		CycleID: rep.CycleID,
		Records: rep.Records,
		FetchMS: rep.FetchMS,
		Flows:   make([]flowSummary, 0, len(rep.Flows)),
	}
	for _, f := range rep.Flows {
		s := flowSummary{
			Flow:     f.Flow,
			Records:  f.Records,
			Skipped:  f.Skipped,
			StoredAt: f.Stored,
			Fallback: f.Fallback,
		}
		if f.Err != nil {
			s.Error = f.Err.Error()
		}
		resp.Flows = append(resp.Flows, s)
	}
	b, _ := json.Marshal(resp)
	return b
}

// buildErrorPayload renders the error envelope.
func buildErrorPayload(message string) []byte {
	b, _ := json.Marshal(errorResponse{Status: "error", Message: message})
	return b
}

func writeJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
