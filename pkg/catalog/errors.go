package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a RemoteServiceError.
type ErrorKind string

const (
	// KindTransport covers requests that never got a reply: network failures,
	// timeouts, cancellation and requests that could not be built.
	KindTransport ErrorKind = "transport"
	// KindServer covers non-2xx responses.
	KindServer ErrorKind = "server"
	// KindShape covers response bodies that cannot be decoded.
	KindShape ErrorKind = "shape"
)

// RemoteServiceError is returned by every Client operation that fails.
type RemoteServiceError struct {
	Kind       ErrorKind
	StatusCode int
	// Message is the human-readable message reported by the server, if any.
	Message string
	Err     error
}

func (e *RemoteServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("product service returned HTTP %d", e.StatusCode)
	case KindShape:
		return "unexpected response from product service"
	default:
		if e.Err != nil {
			return fmt.Sprintf("product service unreachable: %v", e.Err)
		}
		return "product service unreachable"
	}
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// ServerMessage returns the server-supplied message carried by err, or an
// empty string when err is not a RemoteServiceError or carries none.
func ServerMessage(err error) string {
	var rse *RemoteServiceError
	if errors.As(err, &rse) {
		return rse.Message
	}
	return ""
}
