package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/streamdesk/streamdesk/internal/repo"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrMessageConstraint marks storage integrity violations (duplicate slug,
// id collision on undo re-insert). Kept at status 500 for wire compatibility
// but distinguishable by message.
const ErrMessageConstraint = "constraint violation"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// writeJSON sends a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// validationFields flattens validator errors into a field -> failed-tag map.
func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return fields
}

// respondStoreError maps repo errors onto the wire: ErrNotFound -> 404 with
// the given message, constraint violations -> 500 "constraint violation",
// anything else -> generic 500.
func respondStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		JSONError(w, notFoundMsg, http.StatusNotFound)
	case repo.IsConstraint(err):
		JSONError(w, ErrMessageConstraint, http.StatusInternalServerError)
	default:
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
