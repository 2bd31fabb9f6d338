package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
	Message string   `json:"message,omitempty"`
}

const genericFailure = "Something went wrong"

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Error: msg})
}

// Internal writes a 500 whose message carries err only when details are allowed.
func Internal(w http.ResponseWriter, msg string, err error, showDetails bool) {
	body := ErrorResponse{Error: msg, Message: genericFailure}
	if showDetails && err != nil {
		body.Message = err.Error()
	}
	JSON(w, http.StatusInternalServerError, body)
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusNotFound, "Route not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
