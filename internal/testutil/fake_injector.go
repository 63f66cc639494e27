package testutil

import (
	"fmt"
	"sync"

	"github.com/frudas24/inputsim/internal/wininput"
)

// Call records a single injected event.
type Call struct {
	Name  string
	X     int
	Y     int
	Delta int
	Key   wininput.Key
	Unit  uint16
}

// String renders the call compactly for assertions.
func (c Call) String() string {
	switch c.Name {
	case "MoveRel", "MoveAbs", "MoveVirtual":
		return fmt.Sprintf("%s(%d,%d)", c.Name, c.X, c.Y)
	case "Wheel", "HWheel":
		return fmt.Sprintf("%s(%d)", c.Name, c.Delta)
	case "XButtonDown", "XButtonUp":
		return fmt.Sprintf("%s(%d)", c.Name, c.X)
	case "KeyDown", "KeyUp":
		return fmt.Sprintf("%s(%s)", c.Name, c.Key)
	case "Unicode", "UnicodeUp":
		return fmt.Sprintf("%s(%c)", c.Name, rune(c.Unit))
	default:
		return c.Name
	}
}

// FakeInjector implements wininput.Injector and records calls for tests.
// X, Y is the cursor position reported when HasXY is set.
type FakeInjector struct {
	mu    sync.Mutex
	Calls []Call
	X     int
	Y     int
	HasXY bool
	// Screens gives the fake a display layout, primary first. When set,
	// moves update X, Y the way the OS would.
	Screens []wininput.Rect
	// Fail makes the named call return Err.
	Fail string
	Err  error
}

// Ensure FakeInjector implements the interfaces.
var (
	_ wininput.Injector       = (*FakeInjector)(nil)
	_ wininput.CursorProvider = (*FakeInjector)(nil)
)

// Names returns the recorded call strings in order.
func (f *FakeInjector) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

// Record appends an arbitrary marker, for example a sleep, to the call log.
func (f *FakeInjector) Record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Name: name})
}

func (f *FakeInjector) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail != "" && f.Fail == c.Name {
		return f.Err
	}
	f.Calls = append(f.Calls, c)
	f.track(c)
	return nil
}

// track moves the simulated cursor. Callers hold f.mu.
func (f *FakeInjector) track(c Call) {
	if len(f.Screens) == 0 {
		return
	}
	switch c.Name {
	case "MoveRel":
		f.X, f.Y = f.X+c.X, f.Y+c.Y
	case "MoveAbs":
		f.X, f.Y = wininput.Denormalize(c.X, c.Y, f.Screens[0])
	case "MoveVirtual":
		desktop, _ := wininput.UnionRect(f.Screens)
		f.X, f.Y = wininput.Denormalize(c.X, c.Y, desktop)
	default:
		return
	}
	f.HasXY = true
}

// MoveRel records a relative move.
func (f *FakeInjector) MoveRel(dx, dy int) error {
	return f.record(Call{Name: "MoveRel", X: dx, Y: dy})
}

// MoveAbs records an absolute move.
func (f *FakeInjector) MoveAbs(x, y int) error {
	return f.record(Call{Name: "MoveAbs", X: x, Y: y})
}

// MoveVirtual records a virtual-desktop move.
func (f *FakeInjector) MoveVirtual(x, y int) error {
	return f.record(Call{Name: "MoveVirtual", X: x, Y: y})
}

// ButtonDown records a button press.
func (f *FakeInjector) ButtonDown(b wininput.Button) error {
	return f.record(Call{Name: buttonName(b) + "Down"})
}

// ButtonUp records a button release.
func (f *FakeInjector) ButtonUp(b wininput.Button) error {
	return f.record(Call{Name: buttonName(b) + "Up"})
}

// XButtonDown records an auxiliary button press.
func (f *FakeInjector) XButtonDown(id int) error {
	return f.record(Call{Name: "XButtonDown", X: id})
}

// XButtonUp records an auxiliary button release.
func (f *FakeInjector) XButtonUp(id int) error {
	return f.record(Call{Name: "XButtonUp", X: id})
}

// Wheel records a vertical wheel delta.
func (f *FakeInjector) Wheel(delta int) error {
	return f.record(Call{Name: "Wheel", Delta: delta})
}

// HWheel records a horizontal wheel delta.
func (f *FakeInjector) HWheel(delta int) error {
	return f.record(Call{Name: "HWheel", Delta: delta})
}

// KeyDown records a key press.
func (f *FakeInjector) KeyDown(k wininput.Key) error {
	return f.record(Call{Name: "KeyDown", Key: k})
}

// KeyUp records a key release.
func (f *FakeInjector) KeyUp(k wininput.Key) error {
	return f.record(Call{Name: "KeyUp", Key: k})
}

// Unicode records a Unicode code unit.
func (f *FakeInjector) Unicode(unit uint16, up bool) error {
	name := "Unicode"
	if up {
		name = "UnicodeUp"
	}
	return f.record(Call{Name: name, Unit: unit})
}

// CursorPos returns the configured cursor position.
func (f *FakeInjector) CursorPos() (int, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.X, f.Y, f.HasXY
}

func buttonName(b wininput.Button) string {
	switch b {
	case wininput.ButtonLeft:
		return "Left"
	case wininput.ButtonRight:
		return "Right"
	default:
		return "Middle"
	}
}
