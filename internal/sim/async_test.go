package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frudas24/inputsim/internal/testutil"
	"github.com/frudas24/inputsim/internal/wininput"
	"github.com/stretchr/testify/require"
)

// TestAsync_ResolvesToSyncInstance verifies futures resolve to the same mouse.
func TestAsync_ResolvesToSyncInstance(t *testing.T) {
	s, inj := newTestSim(t)
	ctx := context.Background()
	a := s.Async()

	m, err := a.LeftButtonDoubleClick(ctx).Wait(ctx)
	require.NoError(t, err)
	require.Same(t, s.Mouse(), m)
	require.Same(t, a.Sync(), m)

	k, err := a.Keyboard().KeyPress(ctx, wininput.KeyA).Wait(ctx)
	require.NoError(t, err)
	require.Same(t, s.Keyboard(), k)
	require.Same(t, a, a.Keyboard().Mouse())

	require.Equal(t, []string{"LeftDown", "LeftUp", "LeftDown", "LeftUp", "KeyDown(a)", "KeyUp(a)"}, inj.Names())
}

// TestAsync_PreservesSubmissionOrder verifies queued commands run in order.
func TestAsync_PreservesSubmissionOrder(t *testing.T) {
	s, inj := newTestSim(t)
	ctx := context.Background()
	a := s.Async()

	a.MoveMouseBy(ctx, 10, -5)
	a.LeftButtonClick(ctx)
	a.SleepMillis(ctx, 100)
	last := a.RightButtonClick(ctx)
	_, err := last.Result()
	require.NoError(t, err)
	require.Equal(t, []string{
		"MoveRel(10,-5)",
		"LeftDown", "LeftUp",
		"Sleep(100ms)",
		"RightDown", "RightUp",
	}, inj.Names())
}

// TestAsync_ValidationErrorSurfaces verifies invalid parameters fail the future.
func TestAsync_ValidationErrorSurfaces(t *testing.T) {
	s, inj := newTestSim(t)
	ctx := context.Background()

	m, err := s.Async().MoveMouseTo(ctx, 70000, 0).Wait(ctx)
	require.ErrorIs(t, err, ErrInvalidParameter)
	require.Same(t, s.Mouse(), m)

	_, err = s.Async().LeftButtonClick(ctx).Wait(ctx)
	require.ErrorIs(t, err, ErrInvalidParameter)
	require.Empty(t, inj.Calls)
}

// TestAsync_CancelledSleepAbortsChain verifies a cancelled wait stops later commands.
func TestAsync_CancelledSleepAbortsChain(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := New(wininput.Open(inj))
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	a := s.Async()
	_, err := a.LeftButtonDown(ctx).Result()
	require.NoError(t, err)
	sleep := a.Sleep(ctx, time.Hour)
	after := a.LeftButtonUp(context.Background())

	cancel()
	_, err = sleep.Result()
	require.ErrorIs(t, err, context.Canceled)
	_, err = after.Result()
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"LeftDown"}, inj.Names())

	s.Reset()
	_, err = a.LeftButtonUp(context.Background()).Result()
	require.NoError(t, err)
	require.Equal(t, []string{"LeftDown", "LeftUp"}, inj.Names())
}

// TestAsync_WaitHonoursContext verifies Wait gives up without cancelling the command.
func TestAsync_WaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	inj := &testutil.FakeInjector{}
	s := New(wininput.Open(inj), WithSleeper(func(ctx context.Context, d time.Duration) error {
		<-release
		return nil
	}))
	t.Cleanup(func() { _ = s.Close() })

	f := s.Async().Sleep(context.Background(), time.Second)
	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(waitCtx)
	require.True(t, errors.Is(err, context.DeadlineExceeded))

	close(release)
	<-f.Done()
	_, err = f.Result()
	require.NoError(t, err)
}

// TestAsync_ClosedSimulator verifies submissions after Close fail.
func TestAsync_ClosedSimulator(t *testing.T) {
	s, _ := newTestSim(t)
	ctx := context.Background()
	_, err := s.Async().LeftButtonClick(ctx).Result()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.Async().LeftButtonClick(ctx).Result()
	require.ErrorIs(t, err, ErrClosed)
}
