// Package control maps input actions onto the simulator and serves them
// over a websocket.
package control

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/frudas24/inputsim/internal/sim"
	"github.com/frudas24/inputsim/internal/wininput"
)

// ActionType identifies the kind of input action to execute.
type ActionType string

const (
	// ActMoveBy moves the cursor by a pixel delta.
	ActMoveBy ActionType = "move_by"
	// ActMoveTo moves the cursor to normalized coordinates on the primary display.
	ActMoveTo ActionType = "move_to"
	// ActMoveVirtual moves the cursor to normalized coordinates on the virtual desktop.
	ActMoveVirtual ActionType = "move_virtual"
	// ActDown presses a button.
	ActDown ActionType = "down"
	// ActUp releases a button.
	ActUp ActionType = "up"
	// ActClick clicks a button.
	ActClick ActionType = "click"
	// ActDoubleClick double-clicks a button.
	ActDoubleClick ActionType = "double_click"
	// ActScroll rotates the vertical wheel.
	ActScroll ActionType = "scroll"
	// ActHScroll rotates the horizontal wheel.
	ActHScroll ActionType = "hscroll"
	// ActSleep pauses the sequence.
	ActSleep ActionType = "sleep"
	// ActKeyDown presses a key.
	ActKeyDown ActionType = "key_down"
	// ActKeyUp releases a key.
	ActKeyUp ActionType = "key_up"
	// ActKeyPress presses and releases keys in turn.
	ActKeyPress ActionType = "key_press"
	// ActChord presses keys while modifiers are held.
	ActChord ActionType = "chord"
	// ActType types unicode text.
	ActType ActionType = "type"
)

// Action describes one input operation. Unused fields are ignored.
type Action struct {
	Type      ActionType `json:"op" yaml:"op"`
	X         float64    `json:"x,omitempty" yaml:"x,omitempty"`
	Y         float64    `json:"y,omitempty" yaml:"y,omitempty"`
	Button    string     `json:"button,omitempty" yaml:"button,omitempty"`
	Clicks    int        `json:"clicks,omitempty" yaml:"clicks,omitempty"`
	Duration  Duration   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Text      string     `json:"text,omitempty" yaml:"text,omitempty"`
	Keys      []string   `json:"keys,omitempty" yaml:"keys,omitempty"`
	Modifiers []string   `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// button is a parsed Action.Button: a standard button or an X button id.
type button struct {
	std wininput.Button
	x   int
}

func parseButton(name string) (button, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "left":
		return button{std: wininput.ButtonLeft}, nil
	case "right":
		return button{std: wininput.ButtonRight}, nil
	case "middle":
		return button{std: wininput.ButtonMiddle}, nil
	case "x1":
		return button{x: wininput.XButton1}, nil
	case "x2":
		return button{x: wininput.XButton2}, nil
	default:
		return button{}, fmt.Errorf("unknown button %q", name)
	}
}

// invalid wraps a shape error so it matches sim.ErrInvalidParameter.
func invalid(a Action, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", a.Type, fmt.Sprintf(format, args...), sim.ErrInvalidParameter)
}

// Validate checks that the action is well formed. Range checks on values
// are left to the simulator.
func (a Action) Validate() error {
	switch a.Type {
	case ActMoveBy, ActMoveTo, ActMoveVirtual:
		if !finite(a.X) || !finite(a.Y) {
			return invalid(a, "coordinates must be finite, got (%v, %v)", a.X, a.Y)
		}
		return nil
	case ActScroll, ActHScroll, ActSleep, ActType:
		return nil
	case ActDown, ActUp, ActClick, ActDoubleClick:
		if _, err := parseButton(a.Button); err != nil {
			return invalid(a, "%v", err)
		}
		return nil
	case ActKeyDown, ActKeyUp:
		if len(a.Keys) != 1 {
			return invalid(a, "exactly one key required")
		}
	case ActKeyPress, ActChord:
		if len(a.Keys) == 0 {
			return invalid(a, "keys required")
		}
	case "":
		return fmt.Errorf("missing op: %w", sim.ErrInvalidParameter)
	default:
		return fmt.Errorf("unknown op %q: %w", a.Type, sim.ErrInvalidParameter)
	}
	if _, err := wininput.ParseKeys(a.Keys); err != nil {
		return invalid(a, "%v", err)
	}
	if _, err := wininput.ParseKeys(a.Modifiers); err != nil {
		return invalid(a, "%v", err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// waiter blocks until a scheduled action settled. Queued jobs observe
// their own context, so a cancelled batch still settles promptly.
type waiter func() error

func waitMouse(f *sim.Future[sim.Mouse]) waiter {
	return func() error {
		_, err := f.Result()
		return err
	}
}

func waitKeyboard(f *sim.Future[sim.Keyboard]) waiter {
	return func() error {
		_, err := f.Result()
		return err
	}
}

// clampInt rounds v and saturates it to the int range so the simulator's
// range check sees an out-of-range value instead of a wrapped one.
func clampInt(v float64) int {
	r := math.Round(v)
	switch {
	case r >= math.MaxInt:
		return math.MaxInt
	case r <= math.MinInt:
		return math.MinInt
	}
	return int(r)
}

// schedule queues a validated action on the async surface.
func schedule(ctx context.Context, m *sim.AsyncMouse, a Action) (waiter, error) {
	kb := m.Keyboard()
	switch a.Type {
	case ActMoveBy:
		return waitMouse(m.MoveMouseBy(ctx, clampInt(a.X), clampInt(a.Y))), nil
	case ActMoveTo:
		return waitMouse(m.MoveMouseTo(ctx, a.X, a.Y)), nil
	case ActMoveVirtual:
		return waitMouse(m.MoveMouseToPositionOnVirtualDesktop(ctx, a.X, a.Y)), nil
	case ActDown, ActUp, ActClick, ActDoubleClick:
		b, err := parseButton(a.Button)
		if err != nil {
			return nil, invalid(a, "%v", err)
		}
		return waitMouse(scheduleButton(ctx, m, a.Type, b)), nil
	case ActScroll:
		return waitMouse(m.VerticalScroll(ctx, a.Clicks)), nil
	case ActHScroll:
		return waitMouse(m.HorizontalScroll(ctx, a.Clicks)), nil
	case ActSleep:
		return waitMouse(m.Sleep(ctx, a.Duration.Std())), nil
	case ActType:
		return waitKeyboard(kb.TextEntry(ctx, a.Text)), nil
	}

	keys, err := wininput.ParseKeys(a.Keys)
	if err != nil {
		return nil, invalid(a, "%v", err)
	}
	switch a.Type {
	case ActKeyDown:
		return waitKeyboard(kb.KeyDown(ctx, keys[0])), nil
	case ActKeyUp:
		return waitKeyboard(kb.KeyUp(ctx, keys[0])), nil
	case ActKeyPress:
		return waitKeyboard(kb.KeyPress(ctx, keys...)), nil
	case ActChord:
		mods, err := wininput.ParseKeys(a.Modifiers)
		if err != nil {
			return nil, invalid(a, "%v", err)
		}
		return waitKeyboard(kb.ModifiedKeyStroke(ctx, mods, keys...)), nil
	default:
		return nil, fmt.Errorf("unknown op %q: %w", a.Type, sim.ErrInvalidParameter)
	}
}

func scheduleButton(ctx context.Context, m *sim.AsyncMouse, t ActionType, b button) *sim.Future[sim.Mouse] {
	if b.x != 0 {
		switch t {
		case ActDown:
			return m.XButtonDown(ctx, b.x)
		case ActUp:
			return m.XButtonUp(ctx, b.x)
		case ActDoubleClick:
			return m.XButtonDoubleClick(ctx, b.x)
		default:
			return m.XButtonClick(ctx, b.x)
		}
	}
	switch b.std {
	case wininput.ButtonRight:
		switch t {
		case ActDown:
			return m.RightButtonDown(ctx)
		case ActUp:
			return m.RightButtonUp(ctx)
		case ActDoubleClick:
			return m.RightButtonDoubleClick(ctx)
		default:
			return m.RightButtonClick(ctx)
		}
	case wininput.ButtonMiddle:
		switch t {
		case ActDown:
			return m.MiddleButtonDown(ctx)
		case ActUp:
			return m.MiddleButtonUp(ctx)
		case ActDoubleClick:
			return m.MiddleButtonDoubleClick(ctx)
		default:
			return m.MiddleButtonClick(ctx)
		}
	default:
		switch t {
		case ActDown:
			return m.LeftButtonDown(ctx)
		case ActUp:
			return m.LeftButtonUp(ctx)
		case ActDoubleClick:
			return m.LeftButtonDoubleClick(ctx)
		default:
			return m.LeftButtonClick(ctx)
		}
	}
}

// Apply runs a single action and waits for it.
func Apply(ctx context.Context, m *sim.AsyncMouse, a Action) error {
	_, err := ApplyAll(ctx, m, []Action{a})
	return err
}

// ApplyAll validates every action, queues them in order and waits until
// all of them settled, even when ctx ends. On failure it returns the index
// of the first failed action; the simulator's chain error makes the rest
// of the batch a no-op.
func ApplyAll(ctx context.Context, m *sim.AsyncMouse, actions []Action) (int, error) {
	for i, a := range actions {
		if err := a.Validate(); err != nil {
			return i, err
		}
	}
	waits := make([]waiter, 0, len(actions))
	failed, firstErr := -1, error(nil)
	for i, a := range actions {
		w, err := schedule(ctx, m, a)
		if err != nil {
			failed, firstErr = i, err
			break
		}
		waits = append(waits, w)
	}
	for i, w := range waits {
		if err := w(); err != nil && (firstErr == nil || i < failed) {
			failed, firstErr = i, err
		}
	}
	return failed, firstErr
}
