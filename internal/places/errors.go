package places

import (
	"errors"
	"fmt"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrRateLimited   = errors.New("places quota exceeded")
	ErrRequestDenied = errors.New("places request denied")
	ErrNoAPIKey      = errors.New("places api key not configured")
)

// ServiceError is a non-OK status the client has no sentinel for.
type ServiceError struct {
	Status  string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("places service: %s", e.Status)
	}
	return fmt.Sprintf("places service: %s: %s", e.Status, e.Message)
}

func statusError(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return fmt.Errorf("%w: %s", ErrPlaceNotFound, status)
	case "OVER_QUERY_LIMIT":
		return ErrRateLimited
	case "REQUEST_DENIED":
		if message != "" {
			return fmt.Errorf("%w: %s", ErrRequestDenied, message)
		}
		return ErrRequestDenied
	default:
		return &ServiceError{Status: status, Message: message}
	}
}
