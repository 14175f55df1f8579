package zap

import (
	"errors"
	"fmt"
)

// ErrEngineUnreachable marks a control-API call that never reached the engine.
var ErrEngineUnreachable = errors.New("zap: engine unreachable")

// ErrNotReady is returned when the engine does not answer its version
// endpoint within the readiness window.
var ErrNotReady = errors.New("zap: engine not ready")

// StartError wraps a failure to spawn the engine process.
type StartError struct {
	Err error
}

func (e *StartError) Error() string { return "zap: failed to start engine: " + e.Err.Error() }
func (e *StartError) Unwrap() error { return e.Err }

// ProtocolError marks a malformed or error response from the control API.
type ProtocolError struct {
	Path   string
	Status int
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("zap: protocol error on %s (status %d): %v", e.Path, e.Status, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
