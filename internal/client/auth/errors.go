package auth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("email or password incorrect")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
)

// APIError is a non-2xx reply from the identity or tracker service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
