// Package config loads environment configuration for inputsim.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/session"
	"github.com/pion/logging"
)

const (
	defaultListenAddr   = "127.0.0.1:8788"
	defaultDataDir      = "./data"
	defaultStartDelayMs = 2000
	defaultMaxBatch     = 256
	defaultLogLevel     = "info"
)

// ErrPasswordRequired is returned by RequireServe when UI_PASSWORD is unset.
var ErrPasswordRequired = errors.New("UI_PASSWORD is required")

// Config holds runtime configuration values.
type Config struct {
	ListenAddr string
	UIPassword string
	DataDir    string
	ScriptDir  string
	StartDelay time.Duration
	DryRun     bool
	LogLevel   logging.LogLevel
	Policy     session.Policy
	MaxBatch   int
}

// Load reads configuration from DATA_DIR/.env and environment variables.
// Values already in the environment win over the file.
func Load() (Config, error) {
	dataDir := envString("DATA_DIR", defaultDataDir)
	if err := loadEnvFile(filepath.Join(dataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr: envString("LISTEN_ADDR", defaultListenAddr),
		UIPassword: strings.TrimSpace(os.Getenv("UI_PASSWORD")),
		DataDir:    dataDir,
		DryRun:     envBool("DRY_RUN", false),
	}
	cfg.ScriptDir = envString("SCRIPT_DIR", filepath.Join(cfg.DataDir, "scripts"))

	delay, err := envInt("START_DELAY_MS", defaultStartDelayMs)
	if err != nil {
		return Config{}, err
	}
	if delay < 0 {
		return Config{}, fmt.Errorf("START_DELAY_MS must be >= 0")
	}
	cfg.StartDelay = time.Duration(delay) * time.Millisecond

	maxBatch, err := envInt("MAX_BATCH", defaultMaxBatch)
	if err != nil {
		return Config{}, err
	}
	if maxBatch <= 0 {
		return Config{}, fmt.Errorf("MAX_BATCH must be > 0")
	}
	cfg.MaxBatch = maxBatch

	level, err := applog.ParseLevel(envString("LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	policy, err := session.ParsePolicy(os.Getenv("CONTROLLER_POLICY"))
	if err != nil {
		return Config{}, fmt.Errorf("CONTROLLER_POLICY: %w", err)
	}
	cfg.Policy = policy

	return cfg, nil
}

// RequireServe checks the settings only the HTTP server needs.
func (c Config) RequireServe() error {
	if c.UIPassword == "" {
		return ErrPasswordRequired
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
