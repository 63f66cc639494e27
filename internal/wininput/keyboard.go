//go:build windows

// Package wininput defines the OS input injection layer.
package wininput

import "github.com/lxn/win"

// KeyDown presses a virtual key.
func (w *WinInjector) KeyDown(k Key) error {
	return sendKeyboardInput(win.KEYBDINPUT{WVk: uint16(k), DwFlags: keyFlags(k, false)})
}

// KeyUp releases a virtual key.
func (w *WinInjector) KeyUp(k Key) error {
	return sendKeyboardInput(win.KEYBDINPUT{WVk: uint16(k), DwFlags: keyFlags(k, true)})
}

// Unicode sends one UTF-16 code unit as a Unicode key event.
func (w *WinInjector) Unicode(unit uint16, up bool) error {
	flags := uint32(keyeventfUnicode)
	if up {
		flags |= keyeventfKeyUp
	}
	return sendKeyboardInput(win.KEYBDINPUT{WScan: unit, DwFlags: flags})
}

// keyFlags returns the KEYBDINPUT flags for a virtual key.
func keyFlags(k Key, up bool) uint32 {
	var flags uint32
	if k.Extended() {
		flags |= keyeventfExtendedKey
	}
	if up {
		flags |= keyeventfKeyUp
	}
	return flags
}
