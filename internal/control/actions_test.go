package control

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/frudas24/inputsim/internal/sim"
	"github.com/frudas24/inputsim/internal/testutil"
	"github.com/frudas24/inputsim/internal/wininput"
	"github.com/stretchr/testify/require"
)

// newTestSim returns a simulator over a recording injector whose sleeps are
// logged instead of waited.
func newTestSim(t *testing.T) (*sim.Simulator, *testutil.FakeInjector) {
	t.Helper()
	inj := &testutil.FakeInjector{}
	s := sim.New(wininput.Open(inj), sim.WithSleeper(func(ctx context.Context, d time.Duration) error {
		inj.Record(fmt.Sprintf("Sleep(%s)", d))
		return ctx.Err()
	}))
	t.Cleanup(func() { _ = s.Close() })
	return s, inj
}

// TestApply_MapsEveryOp verifies each action type reaches the injector.
func TestApply_MapsEveryOp(t *testing.T) {
	cases := []struct {
		action Action
		want   []string
	}{
		{Action{Type: ActMoveBy, X: 10, Y: -5}, []string{"MoveRel(10,-5)"}},
		{Action{Type: ActMoveTo, X: 0, Y: 65535}, []string{"MoveAbs(0,65535)"}},
		{Action{Type: ActMoveVirtual, X: 100, Y: 200}, []string{"MoveVirtual(100,200)"}},
		{Action{Type: ActDown, Button: "right"}, []string{"RightDown"}},
		{Action{Type: ActUp}, []string{"LeftUp"}},
		{Action{Type: ActClick, Button: "middle"}, []string{"MiddleDown", "MiddleUp"}},
		{Action{Type: ActDoubleClick}, []string{"LeftDown", "LeftUp", "LeftDown", "LeftUp"}},
		{Action{Type: ActClick, Button: "x2"}, []string{"XButtonDown(2)", "XButtonUp(2)"}},
		{Action{Type: ActScroll, Clicks: 2}, []string{"Wheel(240)"}},
		{Action{Type: ActHScroll, Clicks: -1}, []string{"HWheel(-120)"}},
		{Action{Type: ActSleep, Duration: Duration(50 * time.Millisecond)}, []string{"Sleep(50ms)"}},
		{Action{Type: ActKeyDown, Keys: []string{"shift"}}, []string{"KeyDown(shift)"}},
		{Action{Type: ActKeyUp, Keys: []string{"shift"}}, []string{"KeyUp(shift)"}},
		{Action{Type: ActKeyPress, Keys: []string{"a", "b"}}, []string{"KeyDown(a)", "KeyUp(a)", "KeyDown(b)", "KeyUp(b)"}},
		{Action{Type: ActChord, Modifiers: []string{"win"}, Keys: []string{"e"}}, []string{"KeyDown(win)", "KeyDown(e)", "KeyUp(e)", "KeyUp(win)"}},
		{Action{Type: ActType, Text: "Hi"}, []string{"Unicode(H)", "UnicodeUp(H)", "Unicode(i)", "UnicodeUp(i)"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.action.Type), func(t *testing.T) {
			s, inj := newTestSim(t)
			require.NoError(t, Apply(context.Background(), s.Async(), tc.action))
			require.Equal(t, tc.want, inj.Names())
		})
	}
}

// TestValidate_Rejects verifies malformed actions are invalid parameters.
func TestValidate_Rejects(t *testing.T) {
	cases := []Action{
		{},
		{Type: "teleport"},
		{Type: ActClick, Button: "x3"},
		{Type: ActKeyDown},
		{Type: ActKeyDown, Keys: []string{"a", "b"}},
		{Type: ActKeyPress},
		{Type: ActKeyPress, Keys: []string{"hyper"}},
		{Type: ActChord, Keys: []string{"c"}, Modifiers: []string{"nope"}},
		{Type: ActMoveBy, X: math.NaN()},
		{Type: ActMoveBy, Y: math.Inf(-1)},
		{Type: ActMoveTo, X: math.Inf(1)},
		{Type: ActMoveVirtual, Y: math.NaN()},
	}
	for _, a := range cases {
		err := a.Validate()
		require.Error(t, err, "%+v", a)
		require.True(t, errors.Is(err, sim.ErrInvalidParameter), "%+v: %v", a, err)
	}
}

// TestApplyAll_ValidatesBeforeInjecting verifies a bad action anywhere
// in a batch prevents every event.
func TestApplyAll_ValidatesBeforeInjecting(t *testing.T) {
	s, inj := newTestSim(t)
	idx, err := ApplyAll(context.Background(), s.Async(), []Action{
		{Type: ActClick},
		{Type: ActKeyPress, Keys: []string{"hyper"}},
	})
	require.ErrorIs(t, err, sim.ErrInvalidParameter)
	require.Equal(t, 1, idx)
	require.Empty(t, inj.Names())
}

// TestApplyAll_StopsAtFirstFailure verifies the remainder of a batch is skipped.
func TestApplyAll_StopsAtFirstFailure(t *testing.T) {
	s, inj := newTestSim(t)
	idx, err := ApplyAll(context.Background(), s.Async(), []Action{
		{Type: ActClick},
		{Type: ActMoveTo, X: 70000},
		{Type: ActClick, Button: "right"},
	})
	require.ErrorIs(t, err, sim.ErrInvalidParameter)
	require.Equal(t, 1, idx)
	require.Equal(t, []string{"LeftDown", "LeftUp"}, inj.Names())
}

// TestApplyAll_InjectionDenied verifies host refusals surface as denied.
func TestApplyAll_InjectionDenied(t *testing.T) {
	s, inj := newTestSim(t)
	inj.Fail, inj.Err = "KeyDown", wininput.ErrDenied
	idx, err := ApplyAll(context.Background(), s.Async(), []Action{{Type: ActKeyPress, Keys: []string{"a"}}})
	require.ErrorIs(t, err, sim.ErrInjectionDenied)
	require.Equal(t, 0, idx)
}

// TestApply_MoveByOutOfRange verifies relative moves too large for a 32-bit
// delta fail instead of wrapping.
func TestApply_MoveByOutOfRange(t *testing.T) {
	for _, a := range []Action{
		{Type: ActMoveBy, Y: 3e9},
		{Type: ActMoveBy, X: -3e9},
		{Type: ActMoveBy, X: 1e300},
	} {
		s, inj := newTestSim(t)
		err := Apply(context.Background(), s.Async(), a)
		require.ErrorIs(t, err, sim.ErrInvalidParameter, "%+v", a)
		require.Empty(t, inj.Names())
	}
}
