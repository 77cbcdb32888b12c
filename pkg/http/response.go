package http

import (
	"encoding/json"
	"errors"
	"fmt"
	apperrors "hotelbook/pkg/errors"
	"hotelbook/pkg/logger"
	"io"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteOK(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteError renders err with the uniform error body. Server-side failures
// are logged with their full cause chain; the client only sees the opaque
// message.
func WriteError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Code,
			"error", err,
		)
	}
	if writeErr := apperrors.WriteError(w, r, err); writeErr != nil {
		log.Warn("Failed to write error response", "path", r.URL.Path, "error", writeErr)
	}
}

// DecodeJSON reads a single JSON document from the body into dst. Any
// malformed, empty or oversized body is reported as InvalidInput.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.InvalidInput("Request body is required")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("Request body is required")
		case errors.As(err, &maxErr):
			return apperrors.InvalidInput(fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
		default:
			return apperrors.InvalidInput("Malformed JSON request body").WithCause(err)
		}
	}
	if dec.More() {
		return apperrors.InvalidInput("Request body must contain a single JSON object")
	}
	return nil
}
