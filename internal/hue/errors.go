package hue

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Use errors.Is to classify a failure returned by this package.
var (
	// ErrInvalidRequest is returned before any network call when a required
	// argument is missing or malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthorized is returned when an operation needs a registered
	// username and none was configured, or the bridge rejected it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransport is the kind of every *TransportError.
	ErrTransport = errors.New("bridge transport failed")

	// ErrBridgeProtocol is the kind of every *BridgeProtocolError.
	ErrBridgeProtocol = errors.New("bridge reported errors")

	// ErrResponseParse is the kind of every *ResponseParseError.
	ErrResponseParse = errors.New("bridge response not understood")
)

// Bridge error types (v1 API).
const (
	ErrorTypeUnauthorizedUser    = 1
	ErrorTypeInvalidJSON         = 2
	ErrorTypeResourceUnavailable = 3
	ErrorTypeMethodNotAvailable  = 4
	ErrorTypeMissingParameters   = 5
	ErrorTypeParameterInvalid    = 7
	ErrorTypeParameterReadOnly   = 8
	ErrorTypeLinkButtonNotPushed = 101
	ErrorTypeDeviceIsOff         = 201
	ErrorTypeInternal            = 901
)

// TransportError means the HTTP round trip itself failed.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// BridgeProtocolError means the bridge answered with its error-array shape
// where another payload was expected.
type BridgeProtocolError struct {
	Errors []BridgeError
}

func (e *BridgeProtocolError) Error() string {
	var b strings.Builder
	if len(e.Errors) == 1 {
		b.WriteString("unexpected bridge error:")
	} else {
		b.WriteString("unexpected bridge errors:")
	}
	for i, be := range e.Errors {
		fmt.Fprintf(&b, " [%d]: %s - error code %d.", i+1, be.Description, be.Type)
	}
	return b.String()
}

// Is reports ErrBridgeProtocol, and ErrUnauthorized when the bridge rejected
// the username.
func (e *BridgeProtocolError) Is(target error) bool {
	switch target {
	case ErrBridgeProtocol:
		return true
	case ErrUnauthorized:
		for _, be := range e.Errors {
			if be.Type == ErrorTypeUnauthorizedUser {
				return true
			}
		}
	}
	return false
}

// ResponseParseError means the body was neither the expected payload nor a
// bridge error array. Body holds the raw response for diagnostics.
type ResponseParseError struct {
	Status int
	Body   string
	Err    error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("parse bridge response (status %d): %v", e.Status, e.Err)
}

func (e *ResponseParseError) Unwrap() []error {
	return []error{ErrResponseParse, e.Err}
}

func invalidRequest(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}
