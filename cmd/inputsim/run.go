package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/frudas24/inputsim/internal/app"
	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/config"
	"github.com/frudas24/inputsim/internal/script"
	"github.com/frudas24/inputsim/internal/session"
	"github.com/frudas24/inputsim/internal/sim"
	"github.com/frudas24/inputsim/internal/wininput"
	"github.com/pion/logging"
)

// options holds command-line flags.
type options struct {
	debug  bool
	dryRun bool
}

// run loads configuration, opens the input channel, and dispatches the command.
func run(opts options, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.debug {
		cfg.LogLevel = logging.LogLevelDebug
	}
	if opts.dryRun {
		cfg.DryRun = true
	}
	factory := applog.NewFactory(cfg.LogLevel, nil)
	log := factory.NewLogger("main")
	if opts.debug {
		log.Debugf("debug: enabled")
	}

	cmd := args[0]
	switch cmd {
	case "demo", "serve":
		if len(args) != 1 {
			return fmt.Errorf("%s takes no arguments", cmd)
		}
	case "run":
		if len(args) != 2 {
			return errors.New("run requires a script path")
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	ch, err := openChannel(cfg, factory, cmd != "serve")
	if err != nil {
		return err
	}
	defer ch.Close()
	s := sim.New(ch, sim.WithLogger(factory.NewLogger("sim")))
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "demo":
		return runDemo(ctx, s, cfg.StartDelay, log)
	case "run":
		sc, err := script.Load(args[1])
		if err != nil {
			return err
		}
		log.Infof("script %q: %d steps", sc.Name, len(sc.Steps))
		return script.Run(ctx, s, sc)
	default:
		return serve(ctx, cfg, s, factory, log)
	}
}

// openChannel returns the dry-run channel or the process-wide platform
// channel. When strict is false a missing backend is only logged, so the
// server still starts and reports the error per request.
func openChannel(cfg config.Config, factory logging.LoggerFactory, strict bool) (*wininput.Channel, error) {
	if cfg.DryRun {
		return wininput.Open(wininput.NewDryRunInjector(factory.NewLogger("dryrun"))), nil
	}
	ch, err := wininput.Shared()
	if err == nil {
		return ch, nil
	}
	if strict {
		return nil, fmt.Errorf("input backend: %w (try -dry-run)", err)
	}
	factory.NewLogger("main").Warnf("input backend: %v", err)
	return ch, nil
}

// runDemo waits the start delay, then types and clicks like the classic demo form.
func runDemo(ctx context.Context, s *sim.Simulator, delay time.Duration, log logging.LeveledLogger) error {
	log.Infof("demo: starting in %s, focus the target window", delay)
	if _, err := s.Async().Sleep(ctx, delay).Wait(ctx); err != nil {
		return err
	}

	err := s.Keyboard().
		KeyPress(wininput.KeyA, wininput.KeyB, wininput.KeyC).
		TextEntry("Hello!").
		ModifiedKeyStroke([]wininput.Key{wininput.KeyLWin}, wininput.KeyE).
		Err()
	if err != nil {
		return err
	}

	if _, err := s.Async().LeftButtonDoubleClick(ctx).Wait(ctx); err != nil {
		return err
	}
	log.Infof("demo: done")
	return nil
}

// serve wires the application and blocks until shutdown.
func serve(ctx context.Context, cfg config.Config, s *sim.Simulator, factory logging.LoggerFactory, log logging.LeveledLogger) error {
	if err := cfg.RequireServe(); err != nil {
		return err
	}
	logStartup(cfg, log)

	sess := session.New(cfg.UIPassword)
	appInstance, err := app.New(cfg, sess, s, factory)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config, log logging.LeveledLogger) {
	log.Infof("inputsim starting")
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Infof("env check: ok (%s)", envPath)
	} else {
		log.Infof("env check: missing (%s)", envPath)
	}
	log.Infof("script dir: %s", cfg.ScriptDir)
	log.Infof("controller policy: %s, max batch: %d", cfg.Policy, cfg.MaxBatch)
	if cfg.DryRun {
		log.Infof("dry run: input events are logged, not injected")
	}
	logListenStatus(cfg.ListenAddr, log)
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string, log logging.LeveledLogger) {
	log.Infof("listen addr: %s", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Infof("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
