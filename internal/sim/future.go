package sim

import "context"

// Future is the pending result of an asynchronous command.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// newFuture returns an unresolved future.
func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve stores the outcome and releases waiters. It is called once.
func (f *Future[T]) resolve(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Done is closed once the command has completed or was skipped.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the command completes or ctx ends. Giving up on the
// wait does not cancel a command that already started.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until completion and returns the value and error.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.val, f.err
}
