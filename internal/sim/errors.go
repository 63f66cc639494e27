package sim

import (
	"errors"
	"fmt"

	"github.com/frudas24/inputsim/internal/wininput"
)

var (
	// ErrInvalidParameter is returned for arguments outside their domain.
	// No input is injected when it is returned.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInjectionDenied is returned when the OS refuses a synthetic event.
	ErrInjectionDenied = wininput.ErrDenied
	// ErrPlatformUnsupported is returned when the host lacks a capability.
	ErrPlatformUnsupported = wininput.ErrUnsupported
	// ErrClosed is returned after the simulator or its channel is closed.
	ErrClosed = wininput.ErrClosed
)

// ParamError describes a rejected argument.
type ParamError struct {
	Op     string
	Param  string
	Value  any
	Reason string
}

// Error implements error.
func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: invalid %s %v: %s", e.Op, e.Param, e.Value, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidParameter) hold.
func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// paramError builds an ErrInvalidParameter failure.
func paramError(op, param string, value any, reason string) error {
	return &ParamError{Op: op, Param: param, Value: value, Reason: reason}
}
