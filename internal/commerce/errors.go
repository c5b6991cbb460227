package commerce

import "fmt"

// APIError is a non-2xx response from the commerce backend. Message carries
// the server's error field when it sent one, otherwise a generic fallback, so
// it is always safe to show to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func genericMessage(status int) string {
	return fmt.Sprintf("request failed (status %d)", status)
}
