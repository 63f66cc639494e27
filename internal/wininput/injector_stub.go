//go:build !windows && !robotgo

// Package wininput defines the OS input injection layer.
package wininput

// NoopInjector is a placeholder injector for platforms without a backend.
type NoopInjector struct{}

// NewInjector returns a non-functional injector and ErrUnsupported.
// Build with -tags robotgo for the Linux/macOS backend.
func NewInjector() (Injector, error) {
	return &NoopInjector{}, ErrUnsupported
}

// MoveRel returns ErrUnsupported.
func (n *NoopInjector) MoveRel(dx, dy int) error {
	_ = dx
	_ = dy
	return ErrUnsupported
}

// MoveAbs returns ErrUnsupported.
func (n *NoopInjector) MoveAbs(x, y int) error {
	_ = x
	_ = y
	return ErrUnsupported
}

// MoveVirtual returns ErrUnsupported.
func (n *NoopInjector) MoveVirtual(x, y int) error {
	_ = x
	_ = y
	return ErrUnsupported
}

// ButtonDown returns ErrUnsupported.
func (n *NoopInjector) ButtonDown(b Button) error {
	_ = b
	return ErrUnsupported
}

// ButtonUp returns ErrUnsupported.
func (n *NoopInjector) ButtonUp(b Button) error {
	_ = b
	return ErrUnsupported
}

// XButtonDown returns ErrUnsupported.
func (n *NoopInjector) XButtonDown(id int) error {
	_ = id
	return ErrUnsupported
}

// XButtonUp returns ErrUnsupported.
func (n *NoopInjector) XButtonUp(id int) error {
	_ = id
	return ErrUnsupported
}

// Wheel returns ErrUnsupported.
func (n *NoopInjector) Wheel(delta int) error {
	_ = delta
	return ErrUnsupported
}

// HWheel returns ErrUnsupported.
func (n *NoopInjector) HWheel(delta int) error {
	_ = delta
	return ErrUnsupported
}

// KeyDown returns ErrUnsupported.
func (n *NoopInjector) KeyDown(k Key) error {
	_ = k
	return ErrUnsupported
}

// KeyUp returns ErrUnsupported.
func (n *NoopInjector) KeyUp(k Key) error {
	_ = k
	return ErrUnsupported
}

// Unicode returns ErrUnsupported.
func (n *NoopInjector) Unicode(unit uint16, up bool) error {
	_ = unit
	_ = up
	return ErrUnsupported
}
