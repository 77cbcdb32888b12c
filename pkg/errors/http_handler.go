package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

const internalMessage = "An unexpected error occurred"

// ErrorResponse is the single error body shape returned by every endpoint.
type ErrorResponse struct {
	Timestamp time.Time      `json:"timestamp"`
	Status    int            `json:"status"`
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Path      string         `json:"path"`
	Details   map[string]any `json:"details,omitempty"`
}

func NewErrorResponse(err error, path string) ErrorResponse {
	appErr := AsAppError(err)
	status := appErr.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}

	message := appErr.Message
	details := appErr.Details
	if status >= http.StatusInternalServerError && appErr.Code == CodeInternal {
		message = internalMessage
		details = nil
	}

	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
		Details:   details,
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) error {
	path := ""
	if r != nil && r.URL != nil {
		path = r.URL.Path
	}
	response := NewErrorResponse(err, path)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Status)
	return json.NewEncoder(w).Encode(response)
}
