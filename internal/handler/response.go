package handler

import (
	"encoding/json"
	"net/http"
)

type queuedResponse struct {
	Status     string `json:"status"`
	JobID      string `json:"job_id"`
	Recipients int    `json:"recipients,omitempty"`
	Success    bool   `json:"success"`
}

type errorResponse struct {
	Errors  []string `json:"errors"`
	Success bool     `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeErrors(w, status, []string{msg})
}

func writeErrors(w http.ResponseWriter, status int, msgs []string) {
	writeJSON(w, status, errorResponse{Errors: msgs})
}
