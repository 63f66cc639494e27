// Package sim exposes chainable mouse and keyboard command interfaces on
// top of an input injection channel.
//
// Every command returns the interface it was called on, so a gesture reads
// as a script:
//
//	s.Mouse().MoveMouseBy(10, -5).LeftButtonClick().Sleep(100 * time.Millisecond).RightButtonClick()
//	if err := s.Err(); err != nil { ... }
//
// Effects happen in call order. The first failure is sticky: every later
// command on the same Simulator is skipped and Err reports that failure
// until Reset is called. Arguments are validated before anything is
// injected.
//
// Async returns a mirror of the mouse surface whose commands run on a single
// worker goroutine per Simulator, in submission order, and complete a Future
// holding the same interface value the synchronous form returns.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/wininput"
	"github.com/pion/logging"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Simulator.
type Option func(*Simulator)

// WithSleeper overrides how Sleep waits.
func WithSleeper(fn Sleeper) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.sleeper = fn
		}
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(log logging.LeveledLogger) Option {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

// Simulator owns one logical command sequence against a channel.
type Simulator struct {
	ch      *wininput.Channel
	log     logging.LeveledLogger
	sleeper Sleeper

	mu    sync.Mutex
	err   error
	xdown map[int]bool

	mouse    *mouse
	keyboard *keyboard
	async    *AsyncMouse

	wmu    sync.Mutex
	jobs   chan job
	idle   chan struct{}
	closed bool
}

// New returns a simulator issuing its commands through ch.
func New(ch *wininput.Channel, opts ...Option) *Simulator {
	s := &Simulator{
		ch:      ch,
		log:     applog.Discard(),
		sleeper: contextSleep,
		xdown:   make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mouse = &mouse{s: s}
	s.keyboard = &keyboard{s: s}
	s.async = &AsyncMouse{s: s, kb: &AsyncKeyboard{s: s}}
	return s
}

// Mouse returns the mouse command interface.
func (s *Simulator) Mouse() Mouse {
	return s.mouse
}

// Keyboard returns the keyboard command interface.
func (s *Simulator) Keyboard() Keyboard {
	return s.keyboard
}

// Async returns the asynchronous mouse command interface.
func (s *Simulator) Async() *AsyncMouse {
	return s.async
}

// Err returns the first error of the current chain.
func (s *Simulator) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Reset clears the chain error so later commands run again.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// CursorPos reports the OS cursor position in pixels when available.
func (s *Simulator) CursorPos() (int, int, bool) {
	return s.ch.CursorPos()
}

// Close stops the async worker after it drains queued commands. The
// channel is not closed; it belongs to whoever opened it.
func (s *Simulator) Close() error {
	s.wmu.Lock()
	if s.closed {
		s.wmu.Unlock()
		return nil
	}
	s.closed = true
	jobs, idle := s.jobs, s.idle
	s.wmu.Unlock()

	if jobs != nil {
		close(jobs)
		<-idle
	}
	return nil
}

// op is one command. Sync and async forms run the same op; only the
// context differs.
type op func(ctx context.Context) error

// run executes fn unless the chain already failed, and records its error.
func (s *Simulator) run(ctx context.Context, name string, fn op) error {
	if err := s.Err(); err != nil {
		s.log.Debugf("%s skipped: %v", name, err)
		return err
	}
	err := ctx.Err()
	if err == nil {
		s.log.Tracef("%s", name)
		err = fn(ctx)
	}
	if err == nil {
		return nil
	}

	var pe *ParamError
	if !errors.As(err, &pe) {
		err = fmt.Errorf("%s: %w", name, err)
	}
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.log.Warnf("%v", err)
	return err
}

// inject runs fn as one channel transaction.
func (s *Simulator) inject(fn func(wininput.Injector) error) error {
	return s.ch.Do(fn)
}

// contextSleep waits for d unless ctx ends first.
func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sleepOp validates and performs a pause.
func (s *Simulator) sleepOp(opName string, d time.Duration) op {
	return func(ctx context.Context) error {
		if d < 0 {
			return paramError(opName, "timeout", d, "must not be negative")
		}
		if d == 0 {
			return nil
		}
		return s.sleeper(ctx, d)
	}
}

// millis converts a millisecond count, keeping negatives negative.
func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
