package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// RequestError is a non-2xx API response.
type RequestError struct {
	Op      string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *RequestError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// ServerMessage returns the message the server attached to err, or "" when
// err is not a RequestError or the body carried none.
func ServerMessage(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return ""
}
