package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/parkgate/internal/apperr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Error writes err as a JSON error response with the status matching its
// apperr kind.
func Error(w http.ResponseWriter, err error) {
	msg := "internal_error"
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}
	switch {
	case apperr.IsNotFound(err):
		JSONError(w, http.StatusNotFound, "not_found", msg)
	case apperr.IsForbidden(err):
		JSONError(w, http.StatusForbidden, "forbidden", nil)
	case apperr.IsAlreadyPermitted(err):
		JSONError(w, http.StatusConflict, "already_permitted", msg)
	case apperr.IsNotPermitted(err):
		JSONError(w, http.StatusNotFound, "not_permitted", msg)
	case errors.Is(err, apperr.ErrInvalidDelegate):
		JSONError(w, http.StatusUnprocessableEntity, "invalid_delegate", msg)
	case apperr.IsInvalidArgument(err):
		JSONError(w, http.StatusBadRequest, "invalid_argument", msg)
	case errors.Is(err, apperr.ErrUnavailable):
		JSONError(w, http.StatusServiceUnavailable, "unavailable", nil)
	default:
		JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
