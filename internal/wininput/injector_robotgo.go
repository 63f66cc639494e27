//go:build !windows && robotgo

// Package wininput defines the OS input injection layer.
package wininput

import (
	"fmt"
	"unicode/utf16"

	"github.com/go-vgo/robotgo"
)

// RobotInjector injects input through robotgo on Linux and macOS.
type RobotInjector struct {
	highSurrogate uint16
}

// NewInjector returns a robotgo-backed injector.
func NewInjector() (Injector, error) {
	return &RobotInjector{}, nil
}

// MoveRel moves the cursor by a pixel delta.
func (r *RobotInjector) MoveRel(dx, dy int) error {
	robotgo.MoveRelative(dx, dy)
	return nil
}

// MoveAbs moves the cursor to a normalized point on the main display.
func (r *RobotInjector) MoveAbs(x, y int) error {
	px, py := Denormalize(x, y, mainDisplay())
	robotgo.Move(px, py)
	return nil
}

// MoveVirtual moves the cursor to a normalized point on the union of displays.
func (r *RobotInjector) MoveVirtual(x, y int) error {
	rects := make([]Rect, 0, robotgo.DisplaysNum())
	for i := 0; i < robotgo.DisplaysNum(); i++ {
		bx, by, bw, bh := robotgo.GetDisplayBounds(i)
		rects = append(rects, Rect{X: bx, Y: by, W: bw, H: bh})
	}
	desktop, ok := UnionRect(rects)
	if !ok {
		desktop = mainDisplay()
	}
	px, py := Denormalize(x, y, desktop)
	robotgo.Move(px, py)
	return nil
}

// mainDisplay returns the main display bounds.
func mainDisplay() Rect {
	w, h := robotgo.GetScreenSize()
	return Rect{W: w, H: h}
}

// ButtonDown presses a standard mouse button.
func (r *RobotInjector) ButtonDown(b Button) error {
	name, err := robotButton(b)
	if err != nil {
		return err
	}
	robotgo.Toggle(name, "down")
	return nil
}

// ButtonUp releases a standard mouse button.
func (r *RobotInjector) ButtonUp(b Button) error {
	name, err := robotButton(b)
	if err != nil {
		return err
	}
	robotgo.Toggle(name, "up")
	return nil
}

// XButtonDown is not available through robotgo.
func (r *RobotInjector) XButtonDown(id int) error {
	return fmt.Errorf("x button %d: %w", id, ErrUnsupported)
}

// XButtonUp is not available through robotgo.
func (r *RobotInjector) XButtonUp(id int) error {
	return fmt.Errorf("x button %d: %w", id, ErrUnsupported)
}

// Wheel scrolls vertically; delta is in WheelDelta units.
func (r *RobotInjector) Wheel(delta int) error {
	robotgo.Scroll(0, delta/WheelDelta)
	return nil
}

// HWheel scrolls horizontally; delta is in WheelDelta units.
func (r *RobotInjector) HWheel(delta int) error {
	robotgo.Scroll(delta/WheelDelta, 0)
	return nil
}

// KeyDown presses a virtual key.
func (r *RobotInjector) KeyDown(k Key) error {
	name, err := robotKey(k)
	if err != nil {
		return err
	}
	return robotgo.KeyToggle(name, "down")
}

// KeyUp releases a virtual key.
func (r *RobotInjector) KeyUp(k Key) error {
	name, err := robotKey(k)
	if err != nil {
		return err
	}
	return robotgo.KeyToggle(name, "up")
}

// Unicode types a code unit on key down; surrogate pairs are joined first.
func (r *RobotInjector) Unicode(unit uint16, up bool) error {
	if up {
		return nil
	}
	if utf16.IsSurrogate(rune(unit)) && r.highSurrogate == 0 {
		r.highSurrogate = unit
		return nil
	}
	ch := rune(unit)
	if r.highSurrogate != 0 {
		ch = utf16.DecodeRune(rune(r.highSurrogate), rune(unit))
		r.highSurrogate = 0
	}
	robotgo.TypeStr(string(ch))
	return nil
}

// CursorPos returns the cursor position in pixels.
func (r *RobotInjector) CursorPos() (int, int, bool) {
	x, y := robotgo.Location()
	return x, y, true
}

// robotButton maps a standard button to its robotgo name.
func robotButton(b Button) (string, error) {
	switch b {
	case ButtonLeft:
		return "left", nil
	case ButtonRight:
		return "right", nil
	case ButtonMiddle:
		return "center", nil
	default:
		return "", fmt.Errorf("button %d: %w", int(b), ErrUnsupported)
	}
}

var robotKeyNames = map[Key]string{
	KeyBack:     "backspace",
	KeyTab:      "tab",
	KeyReturn:   "enter",
	KeyShift:    "shift",
	KeyControl:  "ctrl",
	KeyMenu:     "alt",
	KeyCapital:  "capslock",
	KeyEscape:   "esc",
	KeySpace:    "space",
	KeyPrior:    "pageup",
	KeyNext:     "pagedown",
	KeyEnd:      "end",
	KeyHome:     "home",
	KeyLeft:     "left",
	KeyUp:       "up",
	KeyRight:    "right",
	KeyDown:     "down",
	KeySnapshot: "printscreen",
	KeyInsert:   "insert",
	KeyDelete:   "delete",
	KeyLWin:     "cmd",
	KeyRWin:     "rcmd",
	KeyLShift:   "lshift",
	KeyRShift:   "rshift",
	KeyLControl: "lctrl",
	KeyRControl: "rctrl",
	KeyLMenu:    "lalt",
	KeyRMenu:    "ralt",
}

// robotKey maps a virtual-key code to a robotgo key name.
func robotKey(k Key) (string, error) {
	if name, ok := robotKeyNames[k]; ok {
		return name, nil
	}
	switch {
	case k >= KeyA && k <= KeyZ, k >= Key0 && k <= Key9, k >= KeyF1 && k <= KeyF1+23:
		return k.String(), nil
	}
	return "", fmt.Errorf("key %s: %w", k, ErrUnsupported)
}
