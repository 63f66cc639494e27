package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/session"
	"github.com/frudas24/inputsim/internal/sim"
	"github.com/pion/logging"
)

// DefaultMaxBatch bounds the number of actions in one batch message.
const DefaultMaxBatch = 256

var (
	// ErrInputDisabled is returned while the kill switch is off.
	ErrInputDisabled = errors.New("input disabled")
	// ErrBatchTooLarge is returned for batches above the configured limit.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrNoScripts is returned when no script runner is installed.
	ErrNoScripts = errors.New("scripts unavailable")
)

// ScriptRunner runs a named script.
type ScriptRunner func(ctx context.Context, name string) error

// Dispatcher executes control messages against one simulator. Commands
// from every transport are serialized through it; kill switch and cursor
// messages bypass that queue.
type Dispatcher struct {
	mu       sync.Mutex
	sim      *sim.Simulator
	sess     *session.Session
	maxBatch int
	log      logging.LeveledLogger

	amu     sync.Mutex
	scripts ScriptRunner
	running map[int]context.CancelCauseFunc
	nextID  int
}

// NewDispatcher returns a dispatcher for s. sess may be nil, in which case
// input is always enabled.
func NewDispatcher(s *sim.Simulator, sess *session.Session, maxBatch int, log logging.LeveledLogger) *Dispatcher {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	if log == nil {
		log = applog.Discard()
	}
	return &Dispatcher{
		sim:      s,
		sess:     sess,
		maxBatch: maxBatch,
		log:      log,
		running:  make(map[int]context.CancelCauseFunc),
	}
}

// SetScriptRunner installs the handler for script messages.
func (d *Dispatcher) SetScriptRunner(fn ScriptRunner) {
	d.amu.Lock()
	defer d.amu.Unlock()
	d.scripts = fn
}

// SetInputEnabled flips the kill switch. Turning input off cancels the
// batch or script in progress; its remaining steps are dropped.
func (d *Dispatcher) SetInputEnabled(enabled bool) {
	d.amu.Lock()
	defer d.amu.Unlock()
	if d.sess != nil {
		d.sess.SetInputEnabled(enabled)
	}
	d.log.Infof("input enabled: %v", enabled)
	if enabled {
		return
	}
	for _, cancel := range d.running {
		cancel(ErrInputDisabled)
	}
}

// HandleRaw decodes and handles one payload.
func (d *Dispatcher) HandleRaw(ctx context.Context, data []byte) Reply {
	msg, err := ParseMessage(data)
	if err != nil {
		return failure(0, err)
	}
	return d.Handle(ctx, msg)
}

// Handle executes msg and returns its reply.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) Reply {
	switch msg.T {
	case MsgAction:
		if msg.Action == nil {
			return failure(msg.Seq, fmt.Errorf("action: missing body: %w", sim.ErrInvalidParameter))
		}
		return d.apply(ctx, msg.Seq, []Action{*msg.Action})
	case MsgBatch:
		if len(msg.Actions) > d.maxBatch {
			return failure(msg.Seq, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(msg.Actions), d.maxBatch))
		}
		return d.apply(ctx, msg.Seq, msg.Actions)
	case MsgScript:
		if err := d.RunScript(ctx, msg.Name); err != nil {
			return failure(msg.Seq, err)
		}
		return success(msg.Seq)
	case MsgReset:
		d.mu.Lock()
		d.sim.Reset()
		d.mu.Unlock()
		return success(msg.Seq)
	case MsgInputEnabled:
		if msg.Enabled == nil {
			return failure(msg.Seq, fmt.Errorf("inputEnabled: missing flag: %w", sim.ErrInvalidParameter))
		}
		d.SetInputEnabled(*msg.Enabled)
		reply := success(msg.Seq)
		enabled := d.inputEnabled()
		reply.Enabled = &enabled
		return reply
	case MsgCursor:
		x, y, ok := d.sim.CursorPos()
		if !ok {
			return failure(msg.Seq, errors.New("cursor position unavailable"))
		}
		reply := success(msg.Seq)
		reply.Cursor = &Point{X: x, Y: y}
		return reply
	default:
		return failure(msg.Seq, fmt.Errorf("unknown message type %q", msg.T))
	}
}

// RunScript runs a named script under the dispatcher lock.
func (d *Dispatcher) RunScript(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.amu.Lock()
	run := d.scripts
	d.amu.Unlock()
	if run == nil {
		return ErrNoScripts
	}
	ctx, done, err := d.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	d.log.Infof("script %q: start", name)
	if err := run(ctx, name); err != nil {
		d.sim.Reset()
		err = killed(ctx, err)
		d.log.Warnf("script %q: %v", name, err)
		return err
	}
	d.log.Infof("script %q: done", name)
	return nil
}

// apply runs actions and clears the chain error afterwards so the next
// message starts fresh.
func (d *Dispatcher) apply(ctx context.Context, seq int64, actions []Action) Reply {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, done, err := d.begin(ctx)
	if err != nil {
		d.log.Debugf("seq %d dropped: %v", seq, err)
		return failure(seq, err)
	}
	defer done()

	idx, err := ApplyAll(ctx, d.sim.Async(), actions)
	if err == nil {
		return success(seq)
	}
	d.sim.Reset()
	err = killed(ctx, err)
	d.log.Warnf("seq %d: action %d: %v", seq, idx, err)
	reply := failure(seq, err)
	if idx >= 0 {
		reply.Index = &idx
	}
	return reply
}

// begin registers running work with the kill switch. It fails while input
// is disabled. done must be called once the work settled.
func (d *Dispatcher) begin(ctx context.Context) (context.Context, func(), error) {
	d.amu.Lock()
	defer d.amu.Unlock()
	if !d.inputEnabled() {
		return nil, nil, ErrInputDisabled
	}
	ctx, cancel := context.WithCancelCause(ctx)
	id := d.nextID
	d.nextID++
	d.running[id] = cancel
	done := func() {
		d.amu.Lock()
		delete(d.running, id)
		d.amu.Unlock()
		cancel(nil)
	}
	return ctx, done, nil
}

// killed reports err as ErrInputDisabled when the kill switch cancelled ctx.
func killed(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrInputDisabled) && !errors.Is(err, ErrInputDisabled) {
		return fmt.Errorf("%w: %v", ErrInputDisabled, err)
	}
	return err
}

func (d *Dispatcher) inputEnabled() bool {
	return d.sess == nil || d.sess.InputEnabled()
}
