package transceiver

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport indicates a socket or hardware failure. Matched by
	// *TransportError.
	ErrTransport = errors.New("transport failure")
	// ErrSessionTooLarge indicates the announced length needs more
	// frames than the ring buffer holds.
	ErrSessionTooLarge = errors.New("session exceeds ring buffer")
	// ErrBusy indicates an operation is already in progress.
	ErrBusy = errors.New("operation in progress")
)

// TransportError wraps a collaborator failure.
type TransportError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the collaborator error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func transportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}
