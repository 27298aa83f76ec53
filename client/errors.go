package client

import (
	"fmt"
	"net/http"

	"taskboard/models"
)

// APIError is a non-2xx response. It matches the models sentinels with
// errors.Is so callers handle remote and local failures alike.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Is(target error) bool {
	switch target {
	case models.ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case models.ErrForbidden:
		return e.Status == http.StatusForbidden
	case models.ErrNotFound:
		return e.Status == http.StatusNotFound
	case models.ErrDuplicateEmail:
		return e.Status == http.StatusConflict
	case models.ErrInvalidCredentials:
		return e.Status == http.StatusBadRequest && e.Code == "INVALID_CREDENTIALS"
	case models.ErrValidation:
		return e.Status == http.StatusBadRequest && e.Code != "INVALID_CREDENTIALS"
	}
	return false
}

// Temporary reports whether the failure was on the server side.
func (e *APIError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError
}
