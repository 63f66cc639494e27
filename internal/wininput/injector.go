// Package wininput defines the OS input injection layer.
package wininput

import "errors"

var (
	// ErrUnsupported indicates the platform cannot inject the requested event.
	ErrUnsupported = errors.New("input injection is not supported on this platform")
	// ErrDenied indicates the OS refused a synthetic event.
	ErrDenied = errors.New("input injection denied")
	// ErrClosed indicates the injection channel was released.
	ErrClosed = errors.New("input channel closed")
)

// WheelDelta is the wheel rotation reported for one detent.
const WheelDelta = 120

// AbsoluteMax is the upper bound of normalized absolute coordinates.
const AbsoluteMax = 65535

// Injector defines the raw input events the simulator layer emits.
// Absolute coordinates are normalized to [0, AbsoluteMax].
type Injector interface {
	MoveRel(dx, dy int) error
	MoveAbs(x, y int) error
	MoveVirtual(x, y int) error
	ButtonDown(b Button) error
	ButtonUp(b Button) error
	XButtonDown(id int) error
	XButtonUp(id int) error
	Wheel(delta int) error
	HWheel(delta int) error
	KeyDown(k Key) error
	KeyUp(k Key) error
	Unicode(unit uint16, up bool) error
}

// CursorProvider can report the current OS cursor position in pixels.
type CursorProvider interface {
	CursorPos() (x, y int, ok bool)
}

// Button identifies a standard mouse button.
type Button int

const (
	// ButtonLeft is the primary button.
	ButtonLeft Button = iota
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonMiddle is the wheel button.
	ButtonMiddle
)

// String returns the lower-case button name.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// X button identifiers.
const (
	XButton1 = 1
	XButton2 = 2
)
