//go:build windows

// Package wininput defines the OS input injection layer.
package wininput

import "fmt"

// MoveRel moves the cursor by a pixel delta.
func (w *WinInjector) MoveRel(dx, dy int) error {
	return sendMouseInput(mouseeventfMove, int32(dx), int32(dy), 0)
}

// MoveAbs moves the cursor to a normalized point on the primary display.
func (w *WinInjector) MoveAbs(x, y int) error {
	return sendMouseInput(mouseeventfMove|mouseeventfAbsolute, int32(x), int32(y), 0)
}

// MoveVirtual moves the cursor to a normalized point on the virtual desktop.
func (w *WinInjector) MoveVirtual(x, y int) error {
	return sendMouseInput(mouseeventfMove|mouseeventfAbsolute|mouseeventfVirtualDesk, int32(x), int32(y), 0)
}

// ButtonDown presses a standard mouse button.
func (w *WinInjector) ButtonDown(b Button) error {
	down, _, err := buttonFlags(b)
	if err != nil {
		return err
	}
	return sendMouseInput(down, 0, 0, 0)
}

// ButtonUp releases a standard mouse button.
func (w *WinInjector) ButtonUp(b Button) error {
	_, up, err := buttonFlags(b)
	if err != nil {
		return err
	}
	return sendMouseInput(up, 0, 0, 0)
}

// XButtonDown presses an auxiliary button.
func (w *WinInjector) XButtonDown(id int) error {
	return sendMouseInput(mouseeventfXDown, 0, 0, uint32(id))
}

// XButtonUp releases an auxiliary button.
func (w *WinInjector) XButtonUp(id int) error {
	return sendMouseInput(mouseeventfXUp, 0, 0, uint32(id))
}

// Wheel scrolls vertically by the provided delta.
func (w *WinInjector) Wheel(delta int) error {
	return sendMouseInput(mouseeventfWheel, 0, 0, uint32(int32(delta)))
}

// HWheel scrolls horizontally by the provided delta.
func (w *WinInjector) HWheel(delta int) error {
	return sendMouseInput(mouseeventfHWheel, 0, 0, uint32(int32(delta)))
}

// buttonFlags returns the down/up flags for a button.
func buttonFlags(b Button) (uint32, uint32, error) {
	switch b {
	case ButtonLeft:
		return mouseeventfLeftDown, mouseeventfLeftUp, nil
	case ButtonRight:
		return mouseeventfRightDown, mouseeventfRightUp, nil
	case ButtonMiddle:
		return mouseeventfMiddleDown, mouseeventfMiddleUp, nil
	default:
		return 0, 0, fmt.Errorf("button %d: %w", int(b), ErrUnsupported)
	}
}
