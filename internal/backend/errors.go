package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every error raised before a usable reply arrived.
	ErrTransport = errors.New("transport failure")

	// ErrStatus matches replies with a non-2xx HTTP status.
	ErrStatus = errors.New("unexpected status")

	ErrBaseURLRequired = errors.New("base url is required")
)

// TransportError keeps the text of the underlying error untouched so it can
// be shown to the user as is.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// StatusError is returned for non-2xx replies. Message holds the server
// provided error text, if any.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}
