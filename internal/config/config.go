// Package config manages weld configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all weld configuration.
type Config struct {
	Runner    RunnerConfig          `toml:"runner"`
	Tools     map[string]ToolConfig `toml:"tools"`
	Telemetry TelemetryConfig       `toml:"telemetry"`
}

// RunnerConfig controls the task execution core.
type RunnerConfig struct {
	MaxConcurrent  int    `toml:"max_concurrent"`
	OutputCap      string `toml:"output_cap"`
	DefaultTimeout string `toml:"default_timeout"`
}

// ToolConfig is one entry of the kind → command table.
type ToolConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// TelemetryConfig controls the metrics snapshot written after each run.
type TelemetryConfig struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration. The tool table
// matches the binaries the runtime image ships: ffmpeg for transcode/probe
// work and node for the script runner.
func DefaultConfig() Config {
	homeDir := weldHome()
	return Config{
		Runner: RunnerConfig{
			MaxConcurrent:  4,
			OutputCap:      "4MB",
			DefaultTimeout: "0s", // Unlimited — recordings run for hours
		},
		Tools: map[string]ToolConfig{
			"transcode": {
				Command: "ffmpeg",
				Args:    []string{"-hide_banner", "-nostdin", "-y"},
			},
			"script": {
				Command: "node",
			},
			"probe": {
				Command: "ffprobe",
				Args:    []string{"-v", "error", "-print_format", "json", "-show_format", "-show_streams"},
			},
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
			File:    filepath.Join(homeDir, "metrics.prom"),
		},
	}
}

// LoadConfig reads config from $WELD_HOME/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(weldHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Runner.MaxConcurrent == 0 {
		cfg.Runner.MaxConcurrent = max(1, runtime.NumCPU()/2)
	}

	return cfg, nil
}

// SaveConfig writes the config to $WELD_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(weldHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// OutputCapBytes converts the configured cap ("4MB", "512KB") to bytes.
func (r RunnerConfig) OutputCapBytes() int {
	return parseByteSize(r.OutputCap)
}

// DefaultTimeoutDuration parses the configured default timeout; zero or
// unparsable means no limit.
func (r RunnerConfig) DefaultTimeoutDuration() time.Duration {
	if r.DefaultTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(r.DefaultTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// parseByteSize converts "4MB" to bytes. Simple parser for config.
func parseByteSize(s string) int {
	var val int
	var unit string
	fmt.Sscanf(s, "%d%s", &val, &unit)
	if val == 0 {
		return 4 * 1024 * 1024 // Default 4MB
	}
	switch unit {
	case "GB":
		return val * 1024 * 1024 * 1024
	case "MB":
		return val * 1024 * 1024
	case "KB":
		return val * 1024
	case "B", "":
		return val
	default:
		return val * 1024 * 1024 // Assume MB
	}
}

// weldHome returns the weld data directory.
func weldHome() string {
	if env := os.Getenv("WELD_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".weld")
}

// WeldHome is exported for use by other packages.
func WeldHome() string {
	return weldHome()
}
