package host

import (
	"errors"
	"fmt"
)

var (
	// ErrVersion indicates the target speaks another protocol version.
	ErrVersion = errors.New("protocol version mismatch")
	// ErrSentinel indicates the byte order sentinel is not recognized.
	ErrSentinel = errors.New("invalid byte order sentinel")
	// ErrUnknownLocation indicates a location the symbols can't resolve.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrUnknownTag indicates a location without a hook.
	ErrUnknownTag = errors.New("no hook for tag")
	// ErrReadOnly is returned when a replayed session expects an answer.
	ErrReadOnly = errors.New("session is read only")
	// ErrIntSize indicates an integer wider than 8 bytes.
	ErrIntSize = errors.New("integer too wide")
)

// ProtocolError is a failure to follow the wire grammar.
type ProtocolError struct {
	Op     string
	Offset int64
	Err    error
}

// Error implements error.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error at %d during %s: %v", e.Offset, e.Op, e.Err)
}

// Unwrap returns the cause.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}
