package sim

import (
	"context"
	"time"
	"unicode/utf16"

	"github.com/frudas24/inputsim/internal/wininput"
)

// Keyboard is the chainable keyboard command interface.
type Keyboard interface {
	// Mouse returns the companion mouse interface.
	Mouse() Mouse

	// KeyDown presses k until a matching KeyUp.
	KeyDown(k wininput.Key) Keyboard
	// KeyUp releases k.
	KeyUp(k wininput.Key) Keyboard
	// KeyPress presses and releases each key in turn.
	KeyPress(keys ...wininput.Key) Keyboard
	// ModifiedKeyStroke holds the modifiers down, presses each key, then
	// releases the modifiers in reverse order.
	ModifiedKeyStroke(modifiers []wininput.Key, keys ...wininput.Key) Keyboard
	// TextEntry types text as Unicode key events.
	TextEntry(text string) Keyboard

	// Sleep pauses the sequence before the next command.
	Sleep(d time.Duration) Keyboard
	// SleepMillis pauses the sequence for ms milliseconds.
	SleepMillis(ms int) Keyboard

	// Err returns the first error of the chain.
	Err() error
}

type keyboard struct {
	s *Simulator
}

var _ Keyboard = (*keyboard)(nil)

// do runs fn synchronously and returns the receiver.
func (k *keyboard) do(name string, fn op) Keyboard {
	_ = k.s.run(context.Background(), name, fn)
	return k
}

// Mouse returns the mouse interface.
func (k *keyboard) Mouse() Mouse { return k.s.mouse }

// Err returns the first error of the chain.
func (k *keyboard) Err() error { return k.s.Err() }

// KeyDown presses key.
func (k *keyboard) KeyDown(key wininput.Key) Keyboard {
	return k.do("KeyDown", k.s.keyDownOp(key))
}

// KeyUp releases key.
func (k *keyboard) KeyUp(key wininput.Key) Keyboard {
	return k.do("KeyUp", k.s.keyUpOp(key))
}

// KeyPress presses and releases each key in turn.
func (k *keyboard) KeyPress(keys ...wininput.Key) Keyboard {
	return k.do("KeyPress", k.s.keyPressOp(keys))
}

// ModifiedKeyStroke holds modifiers while pressing each key, then releases them in reverse order.
func (k *keyboard) ModifiedKeyStroke(modifiers []wininput.Key, keys ...wininput.Key) Keyboard {
	return k.do("ModifiedKeyStroke", k.s.chordOp(modifiers, keys))
}

// TextEntry types text as unicode input.
func (k *keyboard) TextEntry(text string) Keyboard {
	return k.do("TextEntry", k.s.textOp(text))
}

// Sleep pauses the sequence for d.
func (k *keyboard) Sleep(d time.Duration) Keyboard {
	return k.do("Sleep", k.s.sleepOp("Sleep", d))
}

// SleepMillis pauses the sequence for ms milliseconds.
func (k *keyboard) SleepMillis(ms int) Keyboard {
	return k.do("SleepMillis", k.s.sleepOp("SleepMillis", millis(ms)))
}

// validKeys rejects empty or unknown keys.
func validKeys(op string, keys []wininput.Key) error {
	for _, key := range keys {
		if !key.Valid() {
			return paramError(op, "key", uint16(key), "not a virtual-key code")
		}
	}
	return nil
}

// keyDownOp presses one key.
func (s *Simulator) keyDownOp(key wininput.Key) op {
	return func(context.Context) error {
		if err := validKeys("KeyDown", []wininput.Key{key}); err != nil {
			return err
		}
		return s.inject(func(inj wininput.Injector) error {
			return inj.KeyDown(key)
		})
	}
}

// keyUpOp releases one key.
func (s *Simulator) keyUpOp(key wininput.Key) op {
	return func(context.Context) error {
		if err := validKeys("KeyUp", []wininput.Key{key}); err != nil {
			return err
		}
		return s.inject(func(inj wininput.Injector) error {
			return inj.KeyUp(key)
		})
	}
}

// keyPressOp taps each key in one channel transaction.
func (s *Simulator) keyPressOp(keys []wininput.Key) op {
	return func(context.Context) error {
		if err := validKeys("KeyPress", keys); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return s.inject(func(inj wininput.Injector) error {
			return pressAll(inj, keys)
		})
	}
}

// pressAll taps keys in order.
func pressAll(inj wininput.Injector, keys []wininput.Key) error {
	for _, key := range keys {
		if err := inj.KeyDown(key); err != nil {
			return err
		}
		if err := inj.KeyUp(key); err != nil {
			return err
		}
	}
	return nil
}

// chordOp performs a modified keystroke, releasing held modifiers on failure.
func (s *Simulator) chordOp(modifiers, keys []wininput.Key) op {
	return func(context.Context) error {
		if err := validKeys("ModifiedKeyStroke", modifiers); err != nil {
			return err
		}
		if err := validKeys("ModifiedKeyStroke", keys); err != nil {
			return err
		}
		return s.inject(func(inj wininput.Injector) error {
			held := 0
			release := func() {
				for i := held - 1; i >= 0; i-- {
					_ = inj.KeyUp(modifiers[i])
				}
			}
			for _, mod := range modifiers {
				if err := inj.KeyDown(mod); err != nil {
					release()
					return err
				}
				held++
			}
			if err := pressAll(inj, keys); err != nil {
				release()
				return err
			}
			for i := len(modifiers) - 1; i >= 0; i-- {
				if err := inj.KeyUp(modifiers[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// textOp types text as UTF-16 unicode events.
func (s *Simulator) textOp(text string) op {
	return func(context.Context) error {
		if text == "" {
			return nil
		}
		units := utf16.Encode([]rune(text))
		return s.inject(func(inj wininput.Injector) error {
			for _, unit := range units {
				if err := inj.Unicode(unit, false); err != nil {
					return err
				}
				if err := inj.Unicode(unit, true); err != nil {
					return err
				}
			}
			return nil
		})
	}
}
