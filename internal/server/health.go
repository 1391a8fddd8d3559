package server

import (
	"net/http"
	"time"
)

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// handleHealth is the liveness probe; /healthz checks dependencies.
func handleHealth(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			Status:    "OK",
			Timestamp: now().UTC().Format(time.RFC3339Nano),
		})
	}
}
