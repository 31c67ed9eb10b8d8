package taskapi

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response wrapper every taskapi endpoint returns.
type Envelope struct {
	Success  bool     `json:"success"`
	Data     any      `json:"data,omitempty"`
	Count    *int     `json:"count,omitempty"`
	Error    string   `json:"error,omitempty"`
	Message  string   `json:"message,omitempty"`
	Messages []string `json:"messages,omitempty"`
	Path     string   `json:"path,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, Envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

func writeError(w http.ResponseWriter, code int, errText string) {
	writeJSON(w, code, Envelope{Success: false, Error: errText})
}

func writeValidationError(w http.ResponseWriter, messages []string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Success:  false,
		Error:    "Validation Error",
		Messages: messages,
	})
}
