// Package wininput defines the OS input injection layer.
package wininput

import (
	"fmt"
	"strings"
)

// Key is a Windows virtual-key code.
type Key uint16

// Virtual-key codes used by the simulator and scripts.
const (
	KeyBack     Key = 0x08
	KeyTab      Key = 0x09
	KeyReturn   Key = 0x0D
	KeyShift    Key = 0x10
	KeyControl  Key = 0x11
	KeyMenu     Key = 0x12
	KeyPause    Key = 0x13
	KeyCapital  Key = 0x14
	KeyEscape   Key = 0x1B
	KeySpace    Key = 0x20
	KeyPrior    Key = 0x21
	KeyNext     Key = 0x22
	KeyEnd      Key = 0x23
	KeyHome     Key = 0x24
	KeyLeft     Key = 0x25
	KeyUp       Key = 0x26
	KeyRight    Key = 0x27
	KeyDown     Key = 0x28
	KeySnapshot Key = 0x2C
	KeyInsert   Key = 0x2D
	KeyDelete   Key = 0x2E
	Key0        Key = 0x30
	Key9        Key = 0x39
	KeyA        Key = 0x41
	KeyB        Key = 0x42
	KeyC        Key = 0x43
	KeyE        Key = 0x45
	KeyV        Key = 0x56
	KeyX        Key = 0x58
	KeyZ        Key = 0x5A
	KeyLWin     Key = 0x5B
	KeyRWin     Key = 0x5C
	KeyApps     Key = 0x5D
	KeyF1       Key = 0x70
	KeyF12      Key = 0x7B
	KeyLShift   Key = 0xA0
	KeyRShift   Key = 0xA1
	KeyLControl Key = 0xA2
	KeyRControl Key = 0xA3
	KeyLMenu    Key = 0xA4
	KeyRMenu    Key = 0xA5
)

// MaxKey is the highest valid virtual-key code.
const MaxKey Key = 0xFE

var keyNames = map[string]Key{
	"backspace": KeyBack,
	"tab":       KeyTab,
	"enter":     KeyReturn,
	"return":    KeyReturn,
	"shift":     KeyShift,
	"ctrl":      KeyControl,
	"control":   KeyControl,
	"alt":       KeyMenu,
	"menu":      KeyMenu,
	"pause":     KeyPause,
	"capslock":  KeyCapital,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"space":     KeySpace,
	"pageup":    KeyPrior,
	"pagedown":  KeyNext,
	"end":       KeyEnd,
	"home":      KeyHome,
	"left":      KeyLeft,
	"up":        KeyUp,
	"right":     KeyRight,
	"down":      KeyDown,
	"printscr":  KeySnapshot,
	"insert":    KeyInsert,
	"delete":    KeyDelete,
	"lwin":      KeyLWin,
	"win":       KeyLWin,
	"rwin":      KeyRWin,
	"apps":      KeyApps,
	"lshift":    KeyLShift,
	"rshift":    KeyRShift,
	"lctrl":     KeyLControl,
	"rctrl":     KeyRControl,
	"lalt":      KeyLMenu,
	"ralt":      KeyRMenu,
}

// ParseKey resolves a key name ("a", "f5", "enter", "lwin", "0x41").
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return 0, fmt.Errorf("empty key name")
	}
	if k, ok := keyNames[n]; ok {
		return k, nil
	}
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return Key(c - 'a' + 'A'), nil
		case c >= '0' && c <= '9':
			return Key(c), nil
		}
	}
	if len(n) >= 2 && n[0] == 'f' {
		var fn int
		if _, err := fmt.Sscanf(n, "f%d", &fn); err == nil && fn >= 1 && fn <= 24 && fmt.Sprintf("f%d", fn) == n {
			return KeyF1 + Key(fn-1), nil
		}
	}
	if strings.HasPrefix(n, "0x") {
		var code uint16
		if _, err := fmt.Sscanf(n, "0x%x", &code); err == nil && code > 0 && Key(code) <= MaxKey {
			return Key(code), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// ParseKeys resolves a list of key names.
func ParseKeys(names []string) ([]Key, error) {
	out := make([]Key, 0, len(names))
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Valid reports whether k is inside the virtual-key range.
func (k Key) Valid() bool {
	return k > 0 && k <= MaxKey
}

// String returns the canonical name of k, or its hex code.
func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('a' + (k - KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune(k))
	case k >= KeyF1 && k <= KeyF1+23:
		return fmt.Sprintf("f%d", k-KeyF1+1)
	}
	best := ""
	for name, code := range keyNames {
		if code == k && (best == "" || len(name) < len(best) || (len(name) == len(best) && name < best)) {
			best = name
		}
	}
	if best != "" {
		return best
	}
	return fmt.Sprintf("0x%02x", uint16(k))
}

// Extended reports whether k needs the extended-key flag.
func (k Key) Extended() bool {
	switch k {
	case KeyPrior, KeyNext, KeyEnd, KeyHome, KeyLeft, KeyUp, KeyRight, KeyDown,
		KeyInsert, KeyDelete, KeySnapshot, KeyLWin, KeyRWin, KeyApps,
		KeyRControl, KeyRMenu:
		return true
	default:
		return false
	}
}
