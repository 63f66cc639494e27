// Package app wires HTTP routes, websocket servers, and scripts together.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/config"
	"github.com/frudas24/inputsim/internal/control"
	"github.com/frudas24/inputsim/internal/monitor"
	"github.com/frudas24/inputsim/internal/script"
	"github.com/frudas24/inputsim/internal/session"
	"github.com/frudas24/inputsim/internal/signaling"
	"github.com/frudas24/inputsim/internal/sim"
	"github.com/frudas24/inputsim/internal/webrtc"
	"github.com/pion/logging"
)

// App coordinates the HTTP API, websocket servers, and script library.
type App struct {
	mu           sync.RWMutex
	cfg          config.Config
	session      *session.Session
	sim          *sim.Simulator
	dispatcher   *control.Dispatcher
	endpoint     *webrtc.Endpoint
	signaling    *signaling.Server
	control      *control.Server
	scripts      map[string]script.Script
	listMonitors func() ([]monitor.Monitor, error)
	log          logging.LeveledLogger
}

// New creates a new application with its dependencies wired. factory may
// be nil to discard logs.
func New(cfg config.Config, sess *session.Session, s *sim.Simulator, factory logging.LoggerFactory) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if s == nil {
		return nil, errors.New("simulator is required")
	}
	newLogger := func(scope string) logging.LeveledLogger {
		if factory == nil {
			return applog.Discard()
		}
		return factory.NewLogger(scope)
	}

	app := &App{
		cfg:          cfg,
		session:      sess,
		sim:          s,
		scripts:      map[string]script.Script{},
		listMonitors: monitor.ListMonitors,
		log:          newLogger("app"),
	}
	app.dispatcher = control.NewDispatcher(s, sess, cfg.MaxBatch, newLogger("control"))
	app.dispatcher.SetScriptRunner(app.runScript)

	endpoint, err := webrtc.NewEndpoint(app.dispatcher.HandleRaw, factory)
	if err != nil {
		return nil, err
	}
	app.endpoint = endpoint
	app.signaling = signaling.NewServer(endpoint, cfg.Policy, app.authorized, newLogger("signaling"))
	app.control = control.NewServer(app.dispatcher, app.authorized, cfg.Policy, newLogger("control"))

	return app, nil
}

// Start loads the script library.
func (a *App) Start() error {
	return a.ReloadScripts()
}

// Stop closes the live peer connection.
func (a *App) Stop() error {
	a.endpoint.ClosePeer()
	return nil
}

// ReloadScripts replaces the script library with the contents of ScriptDir.
func (a *App) ReloadScripts() error {
	set, err := script.LoadDir(a.cfg.ScriptDir)
	if err != nil {
		return fmt.Errorf("load scripts: %w", err)
	}
	a.mu.Lock()
	a.scripts = set
	a.mu.Unlock()
	a.log.Infof("scripts loaded: %d from %s", len(set), a.cfg.ScriptDir)
	return nil
}

// ScriptNames returns the loaded script names in order.
func (a *App) ScriptNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return script.Names(a.scripts)
}

// runScript plays a loaded script. It is called by the dispatcher.
func (a *App) runScript(ctx context.Context, name string) error {
	a.mu.RLock()
	sc, ok := a.scripts[name]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", script.ErrNotFound, name)
	}
	return script.Run(ctx, a.sim, sc)
}

// ListMonitors returns the current display layout.
func (a *App) ListMonitors() ([]monitor.Monitor, error) {
	return a.listMonitors()
}

// Dispatcher returns the shared control dispatcher.
func (a *App) Dispatcher() *control.Dispatcher {
	return a.dispatcher
}

// Signaling returns the signaling websocket handler.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}
