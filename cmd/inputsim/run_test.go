package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/config"
	"github.com/frudas24/inputsim/internal/sim"
	"github.com/frudas24/inputsim/internal/testutil"
	"github.com/frudas24/inputsim/internal/wininput"
	"github.com/pion/logging"
)

// TestRunDemo verifies the demo's event sequence.
func TestRunDemo(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := sim.New(wininput.Open(inj), sim.WithSleeper(func(ctx context.Context, d time.Duration) error {
		inj.Record(fmt.Sprintf("Sleep(%s)", d))
		return ctx.Err()
	}))
	defer s.Close()

	if err := runDemo(context.Background(), s, 2*time.Second, applog.Discard()); err != nil {
		t.Fatalf("runDemo failed: %v", err)
	}
	want := []string{
		"Sleep(2s)",
		"KeyDown(a)", "KeyUp(a)", "KeyDown(b)", "KeyUp(b)", "KeyDown(c)", "KeyUp(c)",
		"Unicode(H)", "UnicodeUp(H)", "Unicode(e)", "UnicodeUp(e)", "Unicode(l)", "UnicodeUp(l)",
		"Unicode(l)", "UnicodeUp(l)", "Unicode(o)", "UnicodeUp(o)", "Unicode(!)", "UnicodeUp(!)",
		"KeyDown(win)", "KeyDown(e)", "KeyUp(e)", "KeyUp(win)",
		"LeftDown", "LeftUp", "LeftDown", "LeftUp",
	}
	if got := inj.Names(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("unexpected events:\n got %v\nwant %v", got, want)
	}
}

// TestRunDemo_Cancelled verifies an interrupt during the start delay injects nothing.
func TestRunDemo_Cancelled(t *testing.T) {
	inj := &testutil.FakeInjector{}
	s := sim.New(wininput.Open(inj))
	defer s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runDemo(ctx, s, time.Hour, applog.Discard()); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if len(inj.Names()) != 0 {
		t.Fatalf("expected no events, got %v", inj.Names())
	}
}

// TestOpenChannel_DryRun verifies dry-run never touches the platform backend.
func TestOpenChannel_DryRun(t *testing.T) {
	factory := applog.NewFactory(logging.LogLevelDisabled, nil)
	ch, err := openChannel(config.Config{DryRun: true}, factory, true)
	if err != nil {
		t.Fatalf("openChannel failed: %v", err)
	}
	if err := ch.Do(func(inj wininput.Injector) error { return inj.MoveRel(1, 1) }); err != nil {
		t.Fatalf("dry-run injection failed: %v", err)
	}
}

// TestRun_BadArguments verifies argument validation happens before any injection.
func TestRun_BadArguments(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	for _, args := range [][]string{{"fly"}, {"run"}, {"demo", "extra"}} {
		if err := run(options{dryRun: true}, args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
