package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	// ErrNotFound matches API errors with status 404.
	ErrNotFound = errors.New("student not found")
	// ErrEmptyResponse is returned when a fetch succeeds without a body.
	ErrEmptyResponse = errors.New("no data received from the server")
)

// APIError is a failure reported by the server. Message carries the server's
// human-readable explanation when it sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api returned status %d", e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// NetworkError wraps transport failures: refused connections, timeouts,
// cancelled contexts and truncated bodies.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Kind classifies an error for display.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindNetwork
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Classify maps err onto the remote error taxonomy.
func Classify(err error) Kind {
	var netErr *NetworkError
	var apiErr *APIError
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &apiErr):
		return KindServer
	}
	return KindUnknown
}

// Message returns the server-provided message carried by err. Without one,
// it returns fallback, followed by the cause when err is a transport failure.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return fallback + " " + networkCause(netErr)
	}
	return fallback
}

func networkCause(err *NetworkError) string {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return "The request timed out."
	case errors.Is(err, context.Canceled):
		return "The request was cancelled."
	}
	return "Could not reach the server."
}
