package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/beside-app/beside-backend/pkg/apperrors"
)

// envelope is the wire shape for every response. Status is "success" on 2xx,
// "fail" on 4xx, and "error" on 5xx.
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, statusCode int, data interface{}) {
	respondJSON(w, statusCode, envelope{Status: "success", Data: data})
}

func respondMessage(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	respondJSON(w, statusCode, envelope{Status: "success", Message: message, Data: data})
}

// respondError maps a typed application error to its HTTP status. Anything
// untyped is logged and collapsed into a generic 500 so no internal detail
// leaks to the client.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := "fail"
		if appErr.StatusCode >= http.StatusInternalServerError {
			status = "error"
		}
		respondJSON(w, appErr.StatusCode, envelope{Status: status, Message: appErr.Message})
		return
	}

	log.Printf("ERROR: unhandled: %v", err)
	respondJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: "Internal server error"})
}

func respondFail(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, envelope{Status: "fail", Message: message})
}

// decodeJSON decodes the request body into dst, writing a 400 and returning
// false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondFail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
