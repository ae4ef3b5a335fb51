package protocol

import "fmt"

// ProtocolError reports malformed or unexpected wire data: bad magic,
// mismatched packet or device ids, truncated payloads, invalid UTF-8,
// unrecognized enum discriminants or flag bits. The reason always states
// what was expected against what was found.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Reason
}

// protoErrorf builds a *ProtocolError from a format string.
func protoErrorf(format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// ConnectionError reports a failure to establish a session with an
// OpenRGB server, carrying the target address and the underlying cause.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to OpenRGB server at %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// UnsupportedOperationError is returned when an operation requires a
// higher protocol version than the session negotiated. It is raised
// before any bytes are written to the wire.
type UnsupportedOperationError struct {
	Operation  string
	Required   uint32
	Negotiated uint32
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s requires protocol version %d, but the session negotiated version %d",
		e.Operation, e.Required, e.Negotiated)
}
