package sim

import (
	"context"
	"math"
	"time"

	"github.com/frudas24/inputsim/internal/wininput"
)

// MaxScrollClicks bounds a single scroll command so the wheel delta fits
// in a signed 32-bit value.
const MaxScrollClicks = math.MaxInt32 / wininput.WheelDelta

// Mouse is the chainable mouse command interface. Every method returns
// the receiver.
type Mouse interface {
	// Keyboard returns the companion keyboard interface.
	Keyboard() Keyboard

	// MoveMouseBy moves the cursor by a pixel delta from its current position.
	MoveMouseBy(dx, dy int) Mouse
	// MoveMouseTo moves the cursor on the primary display. 0 is the left or
	// top edge and 65535 the right or bottom edge.
	MoveMouseTo(x, y float64) Mouse
	// MoveMouseToPositionOnVirtualDesktop moves the cursor on the bounding
	// box of all active displays, using the same 0..65535 scale.
	MoveMouseToPositionOnVirtualDesktop(x, y float64) Mouse

	// LeftButtonDown presses the left button.
	LeftButtonDown() Mouse
	// LeftButtonUp releases the left button.
	LeftButtonUp() Mouse
	// LeftButtonClick clicks the left button.
	LeftButtonClick() Mouse
	// LeftButtonDoubleClick double-clicks the left button.
	LeftButtonDoubleClick() Mouse

	// RightButtonDown presses the right button.
	RightButtonDown() Mouse
	// RightButtonUp releases the right button.
	RightButtonUp() Mouse
	// RightButtonClick clicks the right button.
	RightButtonClick() Mouse
	// RightButtonDoubleClick double-clicks the right button.
	RightButtonDoubleClick() Mouse

	// MiddleButtonDown presses the middle button.
	MiddleButtonDown() Mouse
	// MiddleButtonUp releases the middle button.
	MiddleButtonUp() Mouse
	// MiddleButtonClick clicks the middle button.
	MiddleButtonClick() Mouse
	// MiddleButtonDoubleClick double-clicks the middle button.
	MiddleButtonDoubleClick() Mouse

	// XButtonDown presses auxiliary button id (1 or 2).
	XButtonDown(id int) Mouse
	// XButtonUp releases auxiliary button id. It fails unless the same
	// button was pressed with XButtonDown.
	XButtonUp(id int) Mouse
	// XButtonClick clicks auxiliary button id.
	XButtonClick(id int) Mouse
	// XButtonDoubleClick double-clicks auxiliary button id.
	XButtonDoubleClick(id int) Mouse

	// VerticalScroll rotates the wheel; positive is away from the user.
	VerticalScroll(clicks int) Mouse
	// HorizontalScroll tilts the wheel; positive is to the right.
	HorizontalScroll(clicks int) Mouse

	// Sleep pauses the sequence before the next command.
	Sleep(d time.Duration) Mouse
	// SleepMillis pauses the sequence for ms milliseconds.
	SleepMillis(ms int) Mouse

	// Err returns the first error of the chain.
	Err() error
}

type mouse struct {
	s *Simulator
}

var _ Mouse = (*mouse)(nil)

// do runs fn synchronously and returns the receiver.
func (m *mouse) do(name string, fn op) Mouse {
	_ = m.s.run(context.Background(), name, fn)
	return m
}

// Keyboard returns the keyboard interface.
func (m *mouse) Keyboard() Keyboard { return m.s.keyboard }

// Err returns the first error of the chain.
func (m *mouse) Err() error { return m.s.Err() }

// MoveMouseBy moves the cursor by a pixel delta.
func (m *mouse) MoveMouseBy(dx, dy int) Mouse {
	return m.do("MoveMouseBy", m.s.moveByOp(dx, dy))
}

// MoveMouseTo moves the cursor to normalized coordinates on the primary display.
func (m *mouse) MoveMouseTo(x, y float64) Mouse {
	return m.do("MoveMouseTo", m.s.moveToOp("MoveMouseTo", x, y, false))
}

// MoveMouseToPositionOnVirtualDesktop moves the cursor to normalized coordinates on the virtual desktop.
func (m *mouse) MoveMouseToPositionOnVirtualDesktop(x, y float64) Mouse {
	return m.do("MoveMouseToPositionOnVirtualDesktop", m.s.moveToOp("MoveMouseToPositionOnVirtualDesktop", x, y, true))
}

// LeftButtonDown presses the left button.
func (m *mouse) LeftButtonDown() Mouse {
	return m.do("LeftButtonDown", m.s.buttonDownOp(wininput.ButtonLeft))
}

// LeftButtonUp releases the left button.
func (m *mouse) LeftButtonUp() Mouse {
	return m.do("LeftButtonUp", m.s.buttonUpOp(wininput.ButtonLeft))
}

// LeftButtonClick clicks the left button.
func (m *mouse) LeftButtonClick() Mouse {
	return m.do("LeftButtonClick", m.s.clickOp(wininput.ButtonLeft, 1))
}

// LeftButtonDoubleClick double-clicks the left button.
func (m *mouse) LeftButtonDoubleClick() Mouse {
	return m.do("LeftButtonDoubleClick", m.s.clickOp(wininput.ButtonLeft, 2))
}

// RightButtonDown presses the right button.
func (m *mouse) RightButtonDown() Mouse {
	return m.do("RightButtonDown", m.s.buttonDownOp(wininput.ButtonRight))
}

// RightButtonUp releases the right button.
func (m *mouse) RightButtonUp() Mouse {
	return m.do("RightButtonUp", m.s.buttonUpOp(wininput.ButtonRight))
}

// RightButtonClick clicks the right button.
func (m *mouse) RightButtonClick() Mouse {
	return m.do("RightButtonClick", m.s.clickOp(wininput.ButtonRight, 1))
}

// RightButtonDoubleClick double-clicks the right button.
func (m *mouse) RightButtonDoubleClick() Mouse {
	return m.do("RightButtonDoubleClick", m.s.clickOp(wininput.ButtonRight, 2))
}

// MiddleButtonDown presses the middle button.
func (m *mouse) MiddleButtonDown() Mouse {
	return m.do("MiddleButtonDown", m.s.buttonDownOp(wininput.ButtonMiddle))
}

// MiddleButtonUp releases the middle button.
func (m *mouse) MiddleButtonUp() Mouse {
	return m.do("MiddleButtonUp", m.s.buttonUpOp(wininput.ButtonMiddle))
}

// MiddleButtonClick clicks the middle button.
func (m *mouse) MiddleButtonClick() Mouse {
	return m.do("MiddleButtonClick", m.s.clickOp(wininput.ButtonMiddle, 1))
}

// MiddleButtonDoubleClick double-clicks the middle button.
func (m *mouse) MiddleButtonDoubleClick() Mouse {
	return m.do("MiddleButtonDoubleClick", m.s.clickOp(wininput.ButtonMiddle, 2))
}

// XButtonDown presses auxiliary button id.
func (m *mouse) XButtonDown(id int) Mouse {
	return m.do("XButtonDown", m.s.xDownOp(id))
}

// XButtonUp releases auxiliary button id.
func (m *mouse) XButtonUp(id int) Mouse {
	return m.do("XButtonUp", m.s.xUpOp(id))
}

// XButtonClick clicks auxiliary button id.
func (m *mouse) XButtonClick(id int) Mouse {
	return m.do("XButtonClick", m.s.xClickOp("XButtonClick", id, 1))
}

// XButtonDoubleClick double-clicks auxiliary button id.
func (m *mouse) XButtonDoubleClick(id int) Mouse {
	return m.do("XButtonDoubleClick", m.s.xClickOp("XButtonDoubleClick", id, 2))
}

// VerticalScroll rotates the vertical wheel by clicks notches.
func (m *mouse) VerticalScroll(clicks int) Mouse {
	return m.do("VerticalScroll", m.s.scrollOp("VerticalScroll", clicks, false))
}

// HorizontalScroll tilts the horizontal wheel by clicks notches.
func (m *mouse) HorizontalScroll(clicks int) Mouse {
	return m.do("HorizontalScroll", m.s.scrollOp("HorizontalScroll", clicks, true))
}

// Sleep pauses the sequence for d.
func (m *mouse) Sleep(d time.Duration) Mouse {
	return m.do("Sleep", m.s.sleepOp("Sleep", d))
}

// SleepMillis pauses the sequence for ms milliseconds.
func (m *mouse) SleepMillis(ms int) Mouse {
	return m.do("SleepMillis", m.s.sleepOp("SleepMillis", millis(ms)))
}

// moveByOp moves relatively. Deltas must fit the 32-bit event fields.
func (s *Simulator) moveByOp(dx, dy int) op {
	return func(context.Context) error {
		if err := relativeDelta("MoveMouseBy", "dx", dx); err != nil {
			return err
		}
		if err := relativeDelta("MoveMouseBy", "dy", dy); err != nil {
			return err
		}
		if dx == 0 && dy == 0 {
			return nil
		}
		return s.inject(func(inj wininput.Injector) error {
			return inj.MoveRel(dx, dy)
		})
	}
}

// moveToOp moves to normalized coordinates on the primary display or the virtual desktop.
func (s *Simulator) moveToOp(name string, x, y float64, virtual bool) op {
	return func(context.Context) error {
		nx, err := absoluteCoord(name, "x", x)
		if err != nil {
			return err
		}
		ny, err := absoluteCoord(name, "y", y)
		if err != nil {
			return err
		}
		return s.inject(func(inj wininput.Injector) error {
			if virtual {
				return inj.MoveVirtual(nx, ny)
			}
			return inj.MoveAbs(nx, ny)
		})
	}
}

// relativeDelta checks a relative move fits a signed 32-bit field.
func relativeDelta(op, param string, v int) error {
	if v > math.MaxInt32 || v < -math.MaxInt32 {
		return paramError(op, param, v, "out of range")
	}
	return nil
}

// absoluteCoord checks v is a normalized coordinate and rounds it.
func absoluteCoord(op, param string, v float64) (int, error) {
	if math.IsNaN(v) || v < 0 || v > wininput.AbsoluteMax {
		return 0, paramError(op, param, v, "must be within [0, 65535]")
	}
	return int(math.Round(v)), nil
}

// buttonDownOp presses b.
func (s *Simulator) buttonDownOp(b wininput.Button) op {
	return func(context.Context) error {
		return s.inject(func(inj wininput.Injector) error {
			return inj.ButtonDown(b)
		})
	}
}

// buttonUpOp releases b.
func (s *Simulator) buttonUpOp(b wininput.Button) op {
	return func(context.Context) error {
		return s.inject(func(inj wininput.Injector) error {
			return inj.ButtonUp(b)
		})
	}
}

// clickOp presses and releases b n times in one channel transaction.
func (s *Simulator) clickOp(b wininput.Button, n int) op {
	return func(context.Context) error {
		return s.inject(func(inj wininput.Injector) error {
			for i := 0; i < n; i++ {
				if err := inj.ButtonDown(b); err != nil {
					return err
				}
				if err := inj.ButtonUp(b); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// validXButton accepts XButton1 and XButton2.
func validXButton(op string, id int) error {
	if id != wininput.XButton1 && id != wininput.XButton2 {
		return paramError(op, "button id", id, "must be 1 or 2")
	}
	return nil
}

// xDownOp presses an X button and remembers it.
func (s *Simulator) xDownOp(id int) op {
	return func(context.Context) error {
		if err := validXButton("XButtonDown", id); err != nil {
			return err
		}
		if err := s.inject(func(inj wininput.Injector) error {
			return inj.XButtonDown(id)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.xdown[id] = true
		s.mu.Unlock()
		return nil
	}
}

// xUpOp releases an X button pressed by xDownOp.
func (s *Simulator) xUpOp(id int) op {
	return func(context.Context) error {
		if err := validXButton("XButtonUp", id); err != nil {
			return err
		}
		s.mu.Lock()
		pressed := s.xdown[id]
		s.mu.Unlock()
		if !pressed {
			return paramError("XButtonUp", "button id", id, "button is not pressed")
		}
		if err := s.inject(func(inj wininput.Injector) error {
			return inj.XButtonUp(id)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		delete(s.xdown, id)
		s.mu.Unlock()
		return nil
	}
}

// xClickOp clicks an X button n times in one channel transaction.
func (s *Simulator) xClickOp(name string, id, n int) op {
	return func(context.Context) error {
		if err := validXButton(name, id); err != nil {
			return err
		}
		return s.inject(func(inj wininput.Injector) error {
			for i := 0; i < n; i++ {
				if err := inj.XButtonDown(id); err != nil {
					return err
				}
				if err := inj.XButtonUp(id); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// scrollOp rotates a wheel by whole notches.
func (s *Simulator) scrollOp(name string, clicks int, horizontal bool) op {
	return func(context.Context) error {
		if clicks > MaxScrollClicks || clicks < -MaxScrollClicks {
			return paramError(name, "clicks", clicks, "out of range")
		}
		if clicks == 0 {
			return nil
		}
		delta := clicks * wininput.WheelDelta
		return s.inject(func(inj wininput.Injector) error {
			if horizontal {
				return inj.HWheel(delta)
			}
			return inj.Wheel(delta)
		})
	}
}
