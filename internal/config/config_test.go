package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/frudas24/inputsim/internal/session"
	"github.com/pion/logging"
)

// setEnv isolates every key Load reads.
func setEnv(t *testing.T, dataDir string, kv map[string]string) {
	t.Helper()
	for _, key := range []string{"LISTEN_ADDR", "UI_PASSWORD", "SCRIPT_DIR", "START_DELAY_MS", "DRY_RUN", "LOG_LEVEL", "CONTROLLER_POLICY", "MAX_BATCH"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	t.Setenv("DATA_DIR", dataDir)
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

// TestLoad_Defaults verifies defaults when nothing is configured.
func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, dir, nil)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != defaultListenAddr || cfg.StartDelay != 2*time.Second || cfg.MaxBatch != 256 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ScriptDir != filepath.Join(dir, "scripts") || cfg.LogLevel != logging.LogLevelInfo || cfg.Policy != session.PolicyReplace || cfg.DryRun {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.RequireServe(); err != ErrPasswordRequired {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

// TestLoad_EnvFile verifies .env values apply without overriding the environment.
func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "# comment\nexport UI_PASSWORD=\"hunter2\"\nSTART_DELAY_MS=0\nLOG_LEVEL=debug\nCONTROLLER_POLICY=reject\nDRY_RUN=yes\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	setEnv(t, dir, map[string]string{"LOG_LEVEL": "warn"})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UIPassword != "hunter2" || cfg.StartDelay != 0 || !cfg.DryRun || cfg.Policy != session.PolicyReject {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.LogLevel != logging.LogLevelWarn {
		t.Fatalf("expected environment to win, got %v", cfg.LogLevel)
	}
	if err := cfg.RequireServe(); err != nil {
		t.Fatalf("RequireServe failed: %v", err)
	}
}

// TestLoad_Invalid verifies bad values name the offending key.
func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"START_DELAY_MS":    "-5",
		"MAX_BATCH":         "0",
		"LOG_LEVEL":         "loud",
		"CONTROLLER_POLICY": "kick",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setEnv(t, t.TempDir(), map[string]string{key: value})
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

// TestParseEnvLine verifies comments, export prefixes, and quoting.
func TestParseEnvLine(t *testing.T) {
	key, value, ok := parseEnvLine(`  export KEY = 'a=b' `)
	if !ok || key != "KEY" || value != "a=b" {
		t.Fatalf("unexpected parse: %q %q %v", key, value, ok)
	}
	for _, line := range []string{"", "# x=1", "novalue", "=1"} {
		if _, _, ok := parseEnvLine(line); ok {
			t.Fatalf("expected %q to be skipped", line)
		}
	}
}
