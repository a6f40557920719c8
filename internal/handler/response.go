package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError, so all responses
// share one shape. Errors always look like:
//
//	{"error": "not_found", "message": "food entry not found with id 7"}

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/nutrition-tracker/internal/apperror"
)

// maxBodyBytes caps request bodies. Entry payloads are a few hundred bytes.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
// owner.Middleware answers with the same type.
type ErrorResponse = apperror.Response

// MessageResponse is returned by endpoints that have nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body is written.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// readJSON decodes a size-limited request body into dst. Any decoding problem
// comes back as a validation error so writeError answers 400.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperror.ValidationFailed(typeErr.Field,
				fmt.Sprintf("%s has the wrong type", typeErr.Field))
		}
		return apperror.ValidationFailed("body", "request body must be valid JSON")
	}
	return nil
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	apperror.ErrValidation → 400 validation_error
//	apperror.ErrNotFound   → 404 not_found
//	apperror.ErrUpstream   → 502 upstream_unavailable
//	anything else          → 500 internal_error
//
// errors.Is walks the whole chain, so a service can wrap an AppError with
// fmt.Errorf("...: %w", err) and the mapping still works.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := apperror.KindInternal
		message := appErr.Message

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = apperror.KindValidation
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = apperror.KindNotFound
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusBadGateway
			errorType = apperror.KindUpstream
			// The message carries the transport error; only name the service.
			message = appErr.Field + " is unavailable"
		}

		writeJSON(w, logger, status, ErrorResponse{
			Error:   errorType,
			Message: message,
		})
		return
	}

	// Never expose raw internal errors: they may contain SQL or file paths.
	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, logger, http.StatusInternalServerError, ErrorResponse{
		Error:   apperror.KindInternal,
		Message: "An internal error occurred",
	})
}
