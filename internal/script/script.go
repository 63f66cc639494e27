// Package script loads YAML gesture scripts and plays them through a
// simulator.
package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frudas24/inputsim/internal/control"
	"github.com/frudas24/inputsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// MaxRepeat bounds how many times a script may loop.
const MaxRepeat = 10000

// ErrNotFound is returned when a named script does not exist.
var ErrNotFound = errors.New("script not found")

// Script is a named sequence of actions.
type Script struct {
	Name   string           `yaml:"name" json:"name"`
	Delay  control.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	Repeat int              `yaml:"repeat,omitempty" json:"repeat,omitempty"`
	Steps  []control.Action `yaml:"steps" json:"steps"`
}

// StepError reports which step of which iteration failed.
type StepError struct {
	Script    string
	Iteration int
	Step      int
	Err       error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("script %q: iteration %d step %d: %v", e.Script, e.Iteration+1, e.Step+1, e.Err)
}

// Unwrap returns the underlying failure.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Parse decodes and validates a script document.
func Parse(r io.Reader) (Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var sc Script
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return Script{}, fmt.Errorf("parse script: empty document")
		}
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Script{}, err
	}
	return sc, nil
}

// Validate checks every step and the loop settings.
func (sc Script) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("script %q: no steps: %w", sc.Name, sim.ErrInvalidParameter)
	}
	if sc.Repeat < 0 || sc.Repeat > MaxRepeat {
		return fmt.Errorf("script %q: repeat %d out of range: %w", sc.Name, sc.Repeat, sim.ErrInvalidParameter)
	}
	if sc.Delay < 0 {
		return fmt.Errorf("script %q: negative delay: %w", sc.Name, sim.ErrInvalidParameter)
	}
	for i, step := range sc.Steps {
		if err := step.Validate(); err != nil {
			return &StepError{Script: sc.Name, Step: i, Err: err}
		}
	}
	return nil
}

// Load reads a script file. The name defaults to the file's base name.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	sc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// LoadDir loads every .yaml or .yml file in dir, keyed by script name.
// A missing directory yields an empty set.
func LoadDir(dir string) (map[string]Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Script{}, nil
		}
		return nil, err
	}
	out := make(map[string]Script)
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		sc, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := out[sc.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate script name %q", dir, sc.Name)
		}
		out[sc.Name] = sc
	}
	return out, nil
}

// Names returns the sorted script names of set.
func Names(set map[string]Script) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run waits for the script delay, then plays its steps Repeat times
// (once when Repeat is zero), stopping at the first failing step.
func Run(ctx context.Context, s *sim.Simulator, sc Script) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	async := s.Async()
	if sc.Delay > 0 {
		if _, err := async.Sleep(ctx, sc.Delay.Std()).Result(); err != nil {
			return fmt.Errorf("script %q: delay: %w", sc.Name, err)
		}
	}
	repeat := max(sc.Repeat, 1)
	for i := 0; i < repeat; i++ {
		if idx, err := control.ApplyAll(ctx, async, sc.Steps); err != nil {
			return &StepError{Script: sc.Name, Iteration: i, Step: idx, Err: err}
		}
	}
	return nil
}
