package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/frudas24/inputsim/internal/testutil"
	"github.com/frudas24/inputsim/internal/wininput"
	"github.com/stretchr/testify/require"
)

// newTestSim returns a simulator over a recording injector whose sleeps are
// logged instead of waited.
func newTestSim(t *testing.T) (*Simulator, *testutil.FakeInjector) {
	t.Helper()
	inj := &testutil.FakeInjector{}
	s := New(wininput.Open(inj), WithSleeper(func(ctx context.Context, d time.Duration) error {
		inj.Record(fmt.Sprintf("Sleep(%s)", d))
		return ctx.Err()
	}))
	t.Cleanup(func() { _ = s.Close() })
	return s, inj
}

// TestMouse_ChainReturnsSameInstance verifies every command returns its receiver.
func TestMouse_ChainReturnsSameInstance(t *testing.T) {
	s, _ := newTestSim(t)
	m := s.Mouse()

	steps := []func(Mouse) Mouse{
		func(m Mouse) Mouse { return m.MoveMouseBy(1, 1) },
		func(m Mouse) Mouse { return m.MoveMouseTo(10, 10) },
		func(m Mouse) Mouse { return m.MoveMouseToPositionOnVirtualDesktop(10, 10) },
		func(m Mouse) Mouse { return m.LeftButtonDown() },
		func(m Mouse) Mouse { return m.LeftButtonUp() },
		func(m Mouse) Mouse { return m.LeftButtonClick() },
		func(m Mouse) Mouse { return m.LeftButtonDoubleClick() },
		func(m Mouse) Mouse { return m.RightButtonDown() },
		func(m Mouse) Mouse { return m.RightButtonUp() },
		func(m Mouse) Mouse { return m.RightButtonClick() },
		func(m Mouse) Mouse { return m.RightButtonDoubleClick() },
		func(m Mouse) Mouse { return m.MiddleButtonClick() },
		func(m Mouse) Mouse { return m.XButtonDown(1) },
		func(m Mouse) Mouse { return m.XButtonUp(1) },
		func(m Mouse) Mouse { return m.XButtonClick(2) },
		func(m Mouse) Mouse { return m.XButtonDoubleClick(2) },
		func(m Mouse) Mouse { return m.VerticalScroll(1) },
		func(m Mouse) Mouse { return m.HorizontalScroll(-1) },
		func(m Mouse) Mouse { return m.Sleep(time.Millisecond) },
		func(m Mouse) Mouse { return m.SleepMillis(1) },
		func(m Mouse) Mouse { return m.Keyboard().Mouse() },
	}
	for i, step := range steps {
		next := step(m)
		require.Same(t, m, next, "step %d", i)
	}
	require.NoError(t, m.Err())
}

// TestMouse_ScenarioEventOrder verifies effects follow call order.
func TestMouse_ScenarioEventOrder(t *testing.T) {
	s, inj := newTestSim(t)

	err := s.Mouse().
		MoveMouseBy(10, -5).
		LeftButtonClick().
		SleepMillis(100).
		RightButtonClick().
		Err()
	require.NoError(t, err)
	require.Equal(t, []string{
		"MoveRel(10,-5)",
		"LeftDown", "LeftUp",
		"Sleep(100ms)",
		"RightDown", "RightUp",
	}, inj.Names())
}

// TestMouse_DoubleClickIsTwoClicks verifies a double click equals two clicks.
func TestMouse_DoubleClickIsTwoClicks(t *testing.T) {
	s1, inj1 := newTestSim(t)
	s2, inj2 := newTestSim(t)

	require.NoError(t, s1.Mouse().LeftButtonDoubleClick().Err())
	require.NoError(t, s2.Mouse().LeftButtonClick().LeftButtonClick().Err())
	require.Equal(t, inj2.Names(), inj1.Names())
	require.Equal(t, []string{"LeftDown", "LeftUp", "LeftDown", "LeftUp"}, inj1.Names())
}

// TestMouse_ScrollNetZero verifies opposite scrolls cancel out.
func TestMouse_ScrollNetZero(t *testing.T) {
	s, inj := newTestSim(t)
	require.NoError(t, s.Mouse().VerticalScroll(3).VerticalScroll(-3).Err())

	total := 0
	for _, c := range inj.Calls {
		require.Equal(t, "Wheel", c.Name)
		total += c.Delta
	}
	require.Len(t, inj.Calls, 2)
	require.Equal(t, 3*wininput.WheelDelta, inj.Calls[0].Delta)
	require.Zero(t, total)
}

// TestMouse_HorizontalScroll verifies horizontal wheel events.
func TestMouse_HorizontalScroll(t *testing.T) {
	s, inj := newTestSim(t)
	require.NoError(t, s.Mouse().HorizontalScroll(-2).VerticalScroll(0).Err())
	require.Equal(t, []string{fmt.Sprintf("HWheel(%d)", -2*wininput.WheelDelta)}, inj.Names())
}

// TestMouse_AbsoluteMoves verifies normalized coordinates are passed through rounded.
func TestMouse_AbsoluteMoves(t *testing.T) {
	s, inj := newTestSim(t)
	err := s.Mouse().
		MoveMouseTo(0, 65535).
		MoveMouseToPositionOnVirtualDesktop(32767.6, 0.4).
		Err()
	require.NoError(t, err)
	require.Equal(t, []string{"MoveAbs(0,65535)", "MoveVirtual(32768,0)"}, inj.Names())
}

// TestMouse_AbsoluteOutOfRange verifies out-of-range coordinates are rejected before dispatch.
func TestMouse_AbsoluteOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		x, y float64
	}{
		{"negative x", -1, 0},
		{"large y", 0, 65536},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, inj := newTestSim(t)
			err := s.Mouse().MoveMouseTo(tc.x, tc.y).Err()
			require.ErrorIs(t, err, ErrInvalidParameter)
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			require.Equal(t, "MoveMouseTo", pe.Op)
			require.Empty(t, inj.Calls)

			s.Reset()
			err = s.Mouse().MoveMouseToPositionOnVirtualDesktop(tc.x, tc.y).Err()
			require.ErrorIs(t, err, ErrInvalidParameter)
			require.Empty(t, inj.Calls)
		})
	}
}

// TestMouse_XButtonPairs verifies a down/up pair yields one press and one release.
func TestMouse_XButtonPairs(t *testing.T) {
	s, inj := newTestSim(t)
	require.NoError(t, s.Mouse().XButtonDown(2).XButtonUp(2).Err())
	require.Equal(t, []string{"XButtonDown(2)", "XButtonUp(2)"}, inj.Names())
}

// TestMouse_XButtonUpWithoutDown verifies releasing an unpressed X button fails.
func TestMouse_XButtonUpWithoutDown(t *testing.T) {
	s, inj := newTestSim(t)
	err := s.Mouse().XButtonDown(1).XButtonUp(2).Err()
	require.ErrorIs(t, err, ErrInvalidParameter)
	require.Equal(t, []string{"XButtonDown(1)"}, inj.Names())

	s.Reset()
	require.NoError(t, s.Mouse().XButtonUp(1).Err())
	require.ErrorIs(t, s.Mouse().XButtonUp(1).Err(), ErrInvalidParameter)
}

// TestMouse_XButtonInvalidID verifies unknown button ids are rejected.
func TestMouse_XButtonInvalidID(t *testing.T) {
	for _, id := range []int{0, 3, -1} {
		s, inj := newTestSim(t)
		require.ErrorIs(t, s.Mouse().XButtonClick(id).Err(), ErrInvalidParameter, "id %d", id)
		require.Empty(t, inj.Calls)
	}
}

// TestMouse_ScrollOutOfRange verifies oversized scrolls are rejected.
func TestMouse_ScrollOutOfRange(t *testing.T) {
	s, inj := newTestSim(t)
	require.ErrorIs(t, s.Mouse().VerticalScroll(MaxScrollClicks+1).Err(), ErrInvalidParameter)
	s.Reset()
	require.ErrorIs(t, s.Mouse().HorizontalScroll(-MaxScrollClicks-1).Err(), ErrInvalidParameter)
	require.Empty(t, inj.Calls)
}

// TestMouse_Sleep verifies zero is a pass-through and negative fails.
func TestMouse_Sleep(t *testing.T) {
	s, inj := newTestSim(t)
	require.NoError(t, s.Mouse().SleepMillis(0).Sleep(0).Err())
	require.Empty(t, inj.Calls)

	err := s.Mouse().SleepMillis(-1).Err()
	require.ErrorIs(t, err, ErrInvalidParameter)
	s.Reset()
	require.ErrorIs(t, s.Mouse().Sleep(-time.Second).Err(), ErrInvalidParameter)
}

// TestMouse_ErrorIsSticky verifies later commands are skipped after a failure.
func TestMouse_ErrorIsSticky(t *testing.T) {
	s, inj := newTestSim(t)
	err := s.Mouse().
		LeftButtonDown().
		MoveMouseTo(-5, 0).
		LeftButtonUp().
		Err()
	require.ErrorIs(t, err, ErrInvalidParameter)
	require.Equal(t, []string{"LeftDown"}, inj.Names())

	s.Reset()
	require.NoError(t, s.Mouse().LeftButtonUp().Err())
	require.Equal(t, []string{"LeftDown", "LeftUp"}, inj.Names())
}

// TestMouse_InjectionDenied verifies OS failures surface with the operation name.
func TestMouse_InjectionDenied(t *testing.T) {
	s, inj := newTestSim(t)
	inj.Fail = "RightDown"
	inj.Err = wininput.ErrDenied

	err := s.Mouse().RightButtonClick().Err()
	require.ErrorIs(t, err, ErrInjectionDenied)
	require.Contains(t, err.Error(), "RightButtonClick")
}

// TestMouse_ClosedChannel verifies a released channel reports ErrClosed.
func TestMouse_ClosedChannel(t *testing.T) {
	inj := &testutil.FakeInjector{}
	ch := wininput.Open(inj)
	s := New(ch)
	require.NoError(t, ch.Close())
	require.ErrorIs(t, s.Mouse().LeftButtonClick().Err(), ErrClosed)
}

// TestMouse_UnsupportedPlatform verifies the stub surfaces ErrPlatformUnsupported.
func TestMouse_UnsupportedPlatform(t *testing.T) {
	s := New(wininput.Open(&unsupportedInjector{}))
	require.ErrorIs(t, s.Mouse().HorizontalScroll(1).Err(), ErrPlatformUnsupported)
}

// unsupportedInjector fails every event like a platform without a backend.
type unsupportedInjector struct{ testutil.FakeInjector }

func (u *unsupportedInjector) HWheel(int) error { return wininput.ErrUnsupported }

// TestMouse_RelativeOutOfRange verifies deltas beyond 32 bits are rejected
// before anything is injected.
func TestMouse_RelativeOutOfRange(t *testing.T) {
	big := int64(math.MaxInt32) + 1
	if int64(int(big)) != big {
		t.Skip("int is 32 bits")
	}
	cases := []struct {
		name   string
		dx, dy int
		param  string
	}{
		{"dx", int(big), 0, "dx"},
		{"dy", 0, -int(big), "dy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, inj := newTestSim(t)
			err := s.Mouse().MoveMouseBy(tc.dx, tc.dy).Err()
			require.ErrorIs(t, err, ErrInvalidParameter)
			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			require.Equal(t, "MoveMouseBy", pe.Op)
			require.Equal(t, tc.param, pe.Param)
			require.Empty(t, inj.Calls)
		})
	}

	s, inj := newTestSim(t)
	require.NoError(t, s.Mouse().MoveMouseBy(math.MaxInt32, -math.MaxInt32).Err())
	require.Equal(t, []string{fmt.Sprintf("MoveRel(%d,%d)", math.MaxInt32, -math.MaxInt32)}, inj.Names())
}

// TestMouse_CursorFollowsAbsoluteMapping verifies the position read back
// after an absolute move is the pixel the 0..65535 mapping names.
func TestMouse_CursorFollowsAbsoluteMapping(t *testing.T) {
	inj := &testutil.FakeInjector{Screens: []wininput.Rect{
		{X: 0, Y: 0, W: 1921, H: 1081},
		{X: -1280, Y: 0, W: 1280, H: 1081},
	}}
	s := New(wininput.Open(inj))
	defer s.Close()

	cases := []struct {
		name string
		move func(Mouse) Mouse
		x, y int
	}{
		{"primary origin", func(m Mouse) Mouse { return m.MoveMouseTo(0, 0) }, 0, 0},
		{"primary far corner", func(m Mouse) Mouse { return m.MoveMouseTo(65535, 65535) }, 1920, 1080},
		{"primary centre", func(m Mouse) Mouse { return m.MoveMouseTo(32767.5, 32767.5) }, 960, 540},
		{"relative", func(m Mouse) Mouse { return m.MoveMouseBy(-10, 5) }, 950, 545},
		{"virtual origin", func(m Mouse) Mouse { return m.MoveMouseToPositionOnVirtualDesktop(0, 0) }, -1280, 0},
		{"virtual far corner", func(m Mouse) Mouse { return m.MoveMouseToPositionOnVirtualDesktop(65535, 65535) }, 1920, 1080},
	}
	for _, tc := range cases {
		require.NoError(t, tc.move(s.Mouse()).Err(), tc.name)
		x, y, ok := s.CursorPos()
		require.True(t, ok, tc.name)
		require.Equal(t, [2]int{tc.x, tc.y}, [2]int{x, y}, tc.name)
	}
}
