//go:build windows

// Package wininput defines the OS input injection layer.
package wininput

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

const (
	mouseeventfMove        = 0x0001
	mouseeventfLeftDown    = 0x0002
	mouseeventfLeftUp      = 0x0004
	mouseeventfRightDown   = 0x0008
	mouseeventfRightUp     = 0x0010
	mouseeventfMiddleDown  = 0x0020
	mouseeventfMiddleUp    = 0x0040
	mouseeventfXDown       = 0x0080
	mouseeventfXUp         = 0x0100
	mouseeventfWheel       = 0x0800
	mouseeventfHWheel      = 0x1000
	mouseeventfVirtualDesk = 0x4000
	mouseeventfAbsolute    = 0x8000

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
	keyeventfUnicode     = 0x0004
)

// WinInjector injects mouse and keyboard input using WinAPI SendInput.
type WinInjector struct{}

// NewInjector returns a Windows input injector.
func NewInjector() (Injector, error) {
	return &WinInjector{}, nil
}

// keyboardInput pads KEYBDINPUT to the size of the INPUT union, which is
// the size of its largest member (MOUSEINPUT).
type keyboardInput struct {
	win.KEYBD_INPUT
	_ [unsafe.Sizeof(win.MOUSEINPUT{}) - unsafe.Sizeof(win.KEYBDINPUT{})]byte
}

// inputSize is the cbSize SendInput expects.
var inputSize = int32(unsafe.Sizeof(win.MOUSE_INPUT{}))

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), inputSize) != 1 {
		return lastError("SendInput(mouse)")
	}
	return nil
}

// sendKeyboardInput dispatches a single keyboard input event.
func sendKeyboardInput(key win.KEYBDINPUT) error {
	var input keyboardInput
	input.Type = win.INPUT_KEYBOARD
	input.Ki = key
	if win.SendInput(1, unsafe.Pointer(&input), inputSize) != 1 {
		return lastError("SendInput(keyboard)")
	}
	return nil
}

// lastError wraps the thread's last WinAPI error as a denial.
func lastError(op string) error {
	code := win.GetLastError()
	if code == 0 {
		return fmt.Errorf("%s: %w", op, ErrDenied)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrDenied, syscall.Errno(code))
}

// CursorPos returns the cursor position in virtual-desktop pixels.
func (w *WinInjector) CursorPos() (int, int, bool) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return 0, 0, false
	}
	return int(pt.X), int(pt.Y), true
}
