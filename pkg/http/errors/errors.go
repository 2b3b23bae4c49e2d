package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondJSON writes data as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError writes a standardized error response to the HTTP response writer
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// RespondInternalError writes an internal server error response
func RespondInternalError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// RespondNotFound writes a not found error response
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondUnauthorized writes an unauthorized error response
func RespondUnauthorized(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusUnauthorized, code, message)
}

// RespondBadRequest writes a bad request error response
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

// RespondConflict writes a conflict error response
func RespondConflict(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusConflict, code, message)
}

// RespondMethodNotAllowed writes a 405 listing the allowed methods.
func RespondMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	RespondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
}

// RespondServiceUnavailable writes a service unavailable error response
func RespondServiceUnavailable(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusServiceUnavailable, code, message)
}
