package sim

import (
	"context"
	"time"

	"github.com/frudas24/inputsim/internal/wininput"
)

const jobQueueSize = 64

type job struct {
	run func()
}

// enqueue hands a job to the worker, starting it on first use.
func (s *Simulator) enqueue(j job) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.jobs == nil {
		s.jobs = make(chan job, jobQueueSize)
		s.idle = make(chan struct{})
		go s.work(s.jobs, s.idle)
	}
	s.jobs <- j
	return nil
}

// work runs jobs one at a time in submission order.
func (s *Simulator) work(jobs <-chan job, idle chan<- struct{}) {
	defer close(idle)
	for j := range jobs {
		j.run()
	}
}

// submit schedules fn and returns a future resolving to val.
func submit[T any](s *Simulator, ctx context.Context, name string, val T, fn op) *Future[T] {
	f := newFuture[T]()
	err := s.enqueue(job{run: func() {
		f.resolve(val, s.run(ctx, name, fn))
	}})
	if err != nil {
		f.resolve(val, err)
	}
	return f
}

// AsyncMouse mirrors Mouse. Each command is queued on the simulator's
// worker and completes a Future holding the synchronous Mouse. A context
// that ends while its command waits in the queue or sleeps aborts the
// chain with the context error.
type AsyncMouse struct {
	s  *Simulator
	kb *AsyncKeyboard
}

// Keyboard returns the asynchronous keyboard interface.
func (a *AsyncMouse) Keyboard() *AsyncKeyboard { return a.kb }

// Sync returns the synchronous mouse interface.
func (a *AsyncMouse) Sync() Mouse { return a.s.mouse }

// submit queues fn with the synchronous mouse as the result.
func (a *AsyncMouse) submit(ctx context.Context, name string, fn op) *Future[Mouse] {
	return submit[Mouse](a.s, ctx, name, a.s.mouse, fn)
}

// MoveMouseBy queues Mouse.MoveMouseBy.
func (a *AsyncMouse) MoveMouseBy(ctx context.Context, dx, dy int) *Future[Mouse] {
	return a.submit(ctx, "MoveMouseBy", a.s.moveByOp(dx, dy))
}

// MoveMouseTo queues Mouse.MoveMouseTo.
func (a *AsyncMouse) MoveMouseTo(ctx context.Context, x, y float64) *Future[Mouse] {
	return a.submit(ctx, "MoveMouseTo", a.s.moveToOp("MoveMouseTo", x, y, false))
}

// MoveMouseToPositionOnVirtualDesktop queues Mouse.MoveMouseToPositionOnVirtualDesktop.
func (a *AsyncMouse) MoveMouseToPositionOnVirtualDesktop(ctx context.Context, x, y float64) *Future[Mouse] {
	return a.submit(ctx, "MoveMouseToPositionOnVirtualDesktop", a.s.moveToOp("MoveMouseToPositionOnVirtualDesktop", x, y, true))
}

// LeftButtonDown queues Mouse.LeftButtonDown.
func (a *AsyncMouse) LeftButtonDown(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "LeftButtonDown", a.s.buttonDownOp(wininput.ButtonLeft))
}

// LeftButtonUp queues Mouse.LeftButtonUp.
func (a *AsyncMouse) LeftButtonUp(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "LeftButtonUp", a.s.buttonUpOp(wininput.ButtonLeft))
}

// LeftButtonClick queues Mouse.LeftButtonClick.
func (a *AsyncMouse) LeftButtonClick(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "LeftButtonClick", a.s.clickOp(wininput.ButtonLeft, 1))
}

// LeftButtonDoubleClick queues Mouse.LeftButtonDoubleClick.
func (a *AsyncMouse) LeftButtonDoubleClick(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "LeftButtonDoubleClick", a.s.clickOp(wininput.ButtonLeft, 2))
}

// RightButtonDown queues Mouse.RightButtonDown.
func (a *AsyncMouse) RightButtonDown(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "RightButtonDown", a.s.buttonDownOp(wininput.ButtonRight))
}

// RightButtonUp queues Mouse.RightButtonUp.
func (a *AsyncMouse) RightButtonUp(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "RightButtonUp", a.s.buttonUpOp(wininput.ButtonRight))
}

// RightButtonClick queues Mouse.RightButtonClick.
func (a *AsyncMouse) RightButtonClick(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "RightButtonClick", a.s.clickOp(wininput.ButtonRight, 1))
}

// RightButtonDoubleClick queues Mouse.RightButtonDoubleClick.
func (a *AsyncMouse) RightButtonDoubleClick(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "RightButtonDoubleClick", a.s.clickOp(wininput.ButtonRight, 2))
}

// MiddleButtonDown queues Mouse.MiddleButtonDown.
func (a *AsyncMouse) MiddleButtonDown(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "MiddleButtonDown", a.s.buttonDownOp(wininput.ButtonMiddle))
}

// MiddleButtonUp queues Mouse.MiddleButtonUp.
func (a *AsyncMouse) MiddleButtonUp(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "MiddleButtonUp", a.s.buttonUpOp(wininput.ButtonMiddle))
}

// MiddleButtonClick queues Mouse.MiddleButtonClick.
func (a *AsyncMouse) MiddleButtonClick(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "MiddleButtonClick", a.s.clickOp(wininput.ButtonMiddle, 1))
}

// MiddleButtonDoubleClick queues Mouse.MiddleButtonDoubleClick.
func (a *AsyncMouse) MiddleButtonDoubleClick(ctx context.Context) *Future[Mouse] {
	return a.submit(ctx, "MiddleButtonDoubleClick", a.s.clickOp(wininput.ButtonMiddle, 2))
}

// XButtonDown queues Mouse.XButtonDown.
func (a *AsyncMouse) XButtonDown(ctx context.Context, id int) *Future[Mouse] {
	return a.submit(ctx, "XButtonDown", a.s.xDownOp(id))
}

// XButtonUp queues Mouse.XButtonUp.
func (a *AsyncMouse) XButtonUp(ctx context.Context, id int) *Future[Mouse] {
	return a.submit(ctx, "XButtonUp", a.s.xUpOp(id))
}

// XButtonClick queues Mouse.XButtonClick.
func (a *AsyncMouse) XButtonClick(ctx context.Context, id int) *Future[Mouse] {
	return a.submit(ctx, "XButtonClick", a.s.xClickOp("XButtonClick", id, 1))
}

// XButtonDoubleClick queues Mouse.XButtonDoubleClick.
func (a *AsyncMouse) XButtonDoubleClick(ctx context.Context, id int) *Future[Mouse] {
	return a.submit(ctx, "XButtonDoubleClick", a.s.xClickOp("XButtonDoubleClick", id, 2))
}

// VerticalScroll queues Mouse.VerticalScroll.
func (a *AsyncMouse) VerticalScroll(ctx context.Context, clicks int) *Future[Mouse] {
	return a.submit(ctx, "VerticalScroll", a.s.scrollOp("VerticalScroll", clicks, false))
}

// HorizontalScroll queues Mouse.HorizontalScroll.
func (a *AsyncMouse) HorizontalScroll(ctx context.Context, clicks int) *Future[Mouse] {
	return a.submit(ctx, "HorizontalScroll", a.s.scrollOp("HorizontalScroll", clicks, true))
}

// Sleep queues Mouse.Sleep.
func (a *AsyncMouse) Sleep(ctx context.Context, d time.Duration) *Future[Mouse] {
	return a.submit(ctx, "Sleep", a.s.sleepOp("Sleep", d))
}

// SleepMillis queues Mouse.SleepMillis.
func (a *AsyncMouse) SleepMillis(ctx context.Context, ms int) *Future[Mouse] {
	return a.submit(ctx, "SleepMillis", a.s.sleepOp("SleepMillis", millis(ms)))
}

// AsyncKeyboard mirrors Keyboard on the same worker as AsyncMouse.
type AsyncKeyboard struct {
	s *Simulator
}

// Mouse returns the asynchronous mouse interface.
func (a *AsyncKeyboard) Mouse() *AsyncMouse { return a.s.async }

// Sync returns the synchronous keyboard interface.
func (a *AsyncKeyboard) Sync() Keyboard { return a.s.keyboard }

// submit queues fn with the synchronous keyboard as the result.
func (a *AsyncKeyboard) submit(ctx context.Context, name string, fn op) *Future[Keyboard] {
	return submit[Keyboard](a.s, ctx, name, a.s.keyboard, fn)
}

// KeyDown queues Keyboard.KeyDown.
func (a *AsyncKeyboard) KeyDown(ctx context.Context, k wininput.Key) *Future[Keyboard] {
	return a.submit(ctx, "KeyDown", a.s.keyDownOp(k))
}

// KeyUp queues Keyboard.KeyUp.
func (a *AsyncKeyboard) KeyUp(ctx context.Context, k wininput.Key) *Future[Keyboard] {
	return a.submit(ctx, "KeyUp", a.s.keyUpOp(k))
}

// KeyPress queues Keyboard.KeyPress.
func (a *AsyncKeyboard) KeyPress(ctx context.Context, keys ...wininput.Key) *Future[Keyboard] {
	return a.submit(ctx, "KeyPress", a.s.keyPressOp(keys))
}

// ModifiedKeyStroke queues Keyboard.ModifiedKeyStroke.
func (a *AsyncKeyboard) ModifiedKeyStroke(ctx context.Context, modifiers []wininput.Key, keys ...wininput.Key) *Future[Keyboard] {
	return a.submit(ctx, "ModifiedKeyStroke", a.s.chordOp(modifiers, keys))
}

// TextEntry queues Keyboard.TextEntry.
func (a *AsyncKeyboard) TextEntry(ctx context.Context, text string) *Future[Keyboard] {
	return a.submit(ctx, "TextEntry", a.s.textOp(text))
}

// Sleep queues Keyboard.Sleep.
func (a *AsyncKeyboard) Sleep(ctx context.Context, d time.Duration) *Future[Keyboard] {
	return a.submit(ctx, "Sleep", a.s.sleepOp("Sleep", d))
}

// SleepMillis queues Keyboard.SleepMillis.
func (a *AsyncKeyboard) SleepMillis(ctx context.Context, ms int) *Future[Keyboard] {
	return a.submit(ctx, "SleepMillis", a.s.sleepOp("SleepMillis", millis(ms)))
}
