package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ClassifyLogin maps a login failure onto a user-facing category, mirroring
// the server's status/message conventions:
//
//   - a message mentioning "not enabled" means the account exists but the
//     email was never confirmed;
//   - 400/401 means the credentials were wrong;
//   - anything else stays as-is (network trouble, 5xx, ...).
func ClassifyLogin(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if strings.Contains(strings.ToLower(apiErr.Message), "not enabled") {
		return ErrEmailNotConfirmed
	}
	if apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	return err
}
