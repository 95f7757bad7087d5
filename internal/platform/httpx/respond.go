// Package httpx provides HTTP response utilities shared by API handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// APIError is the JSON error payload returned by API endpoints.
type APIError struct {
	Message string `json:"error"`
	Status  int    `json:"status"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError constructs an APIError with the given status and message.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Message: message, Status: status}
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail writes an APIError as the response body with its status code.
func Fail(w http.ResponseWriter, apiErr *APIError) {
	if apiErr == nil {
		apiErr = NewAPIError(http.StatusInternalServerError, "Internal error")
	}
	JSON(w, apiErr.Status, apiErr)
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
