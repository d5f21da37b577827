package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned before any network I/O when an
	// authenticated call is attempted with an anonymous session.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrSessionExpired is returned when the server answers 403. The stored
	// session has already been cleared by the time the caller sees it.
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// RequestError is a JSON error answer from the server.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server rejected request (%d)", e.Status)
}

// ProtocolError indicates the server answered with something other than the
// JSON the API promises, typically a proxy or captive portal in the way.
type ProtocolError struct {
	Status      int
	ContentType string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response from server (%d, %s)", e.Status, e.ContentType)
}
