package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode"
	"unicode/utf8"

	"taskboard/logging"
	"taskboard/models"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

// writeError maps domain errors to a status code. Anything unrecognised is a
// 500 whose details only reach the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"

	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		status, code, message = http.StatusUnauthorized, "UNAUTHENTICATED", capitalize(err.Error())
	case errors.Is(err, models.ErrForbidden):
		status, code, message = http.StatusForbidden, "FORBIDDEN", capitalize(err.Error())
	case errors.Is(err, models.ErrNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", capitalize(err.Error())
	case errors.Is(err, models.ErrDuplicateEmail):
		status, code, message = http.StatusConflict, "DUPLICATE_EMAIL", "User already exists"
	case errors.Is(err, models.ErrInvalidCredentials):
		status, code, message = http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid Credentials"
	case errors.Is(err, models.ErrValidation):
		status, code, message = http.StatusBadRequest, "VALIDATION_FAILED", capitalize(err.Error())
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
	}

	writeJSON(w, status, ErrorResponse{Message: message, Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}
	return nil
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}
