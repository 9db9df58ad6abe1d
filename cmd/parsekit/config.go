package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration for the parsekit CLI, loaded from a
// TOML file.
type Config struct {
	// CacheDir is the directory the compiled-pattern cache's SQLite file
	// lives in. Empty disables caching.
	CacheDir string `toml:"cache_dir"`

	// Prompt is the REPL's prompt string.
	Prompt string `toml:"prompt"`

	// EchoTrace, if true, makes the REPL print the backtracking trace for
	// every match attempt by default.
	EchoTrace bool `toml:"echo_trace"`

	// APIToken is the token the HTTP demo server (see -s/--serve) accepts
	// at POST /auth in exchange for the session JWT its authenticated
	// endpoints require as a bearer token. Empty disables auth entirely,
	// which is only appropriate for local experimentation.
	APIToken string `toml:"api_token"`

	// UnauthDelayMillis is how long the HTTP demo server pauses before
	// responding to an unauthenticated request, mirroring the
	// UnauthDelayMillis server config knob.
	UnauthDelayMillis int `toml:"unauth_delay_millis"`
}

// FillDefaults returns a copy of cfg with unset fields set to their
// defaults.
func (cfg Config) FillDefaults() Config {
	filled := cfg
	if filled.Prompt == "" {
		filled.Prompt = "parsekit> "
	}
	return filled
}

// unauthDelay returns the configured unauthenticated-response delay as a
// time.Duration.
func (cfg Config) unauthDelay() time.Duration {
	return time.Duration(cfg.UnauthDelayMillis) * time.Millisecond
}

// LoadConfig reads and decodes a TOML config file at path. A missing file is
// not an error; it yields an empty Config so FillDefaults can take over.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if cfg.CacheDir != "" && !filepath.IsAbs(cfg.CacheDir) {
		dir := filepath.Dir(path)
		cfg.CacheDir = filepath.Join(dir, cfg.CacheDir)
	}

	return cfg, nil
}
