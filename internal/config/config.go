// Package config loads client settings. Layers, lowest precedence
// first: defaults, TOML file, .env file, environment, flags (applied by
// the caller).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/idilsaglam/todo-client/internal/logging"
	"github.com/idilsaglam/todo-client/internal/ui"
)

// Environment variables read by Load.
const (
	EnvAPIURL    = "TODO_API_URL"
	EnvTheme     = "TODO_THEME"
	EnvLogLevel  = "TODO_LOG_LEVEL"
	EnvLogFormat = "TODO_LOG_FORMAT"
	EnvLogFile   = "TODO_LOG_FILE"
)

// DefaultAPIURL is where a local todo server listens.
const DefaultAPIURL = "http://localhost:5150/api"

// Config is the client configuration.
type Config struct {
	APIURL string `toml:"api_url"`
	Theme  string `toml:"theme"`
	Route  string `toml:"route"`
	Log    Log    `toml:"log"`
}

// Log configures the diagnostic stream.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL: DefaultAPIURL,
		Theme:  ui.DefaultTheme,
		Route:  "/",
		Log: Log{
			Level:  "info",
			Format: "text",
			File:   logging.DefaultFile(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/todo/config.toml, falling back
// to the user config dir.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "todo", "config.toml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todo", "config.toml")
}

// Load builds the configuration from defaults, the TOML file at path
// (DefaultPath if empty; a missing file is fine), a .env file in the
// working directory, and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) || explicit {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	// .env never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.APIURL, EnvAPIURL)
	set(&c.Theme, EnvTheme)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)
	set(&c.Log.File, EnvLogFile)
}

// Validate checks the values the client cannot start without.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return errors.New("api url is empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api url %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api url %q: missing host", c.APIURL)
	}
	if _, err := ui.ThemeByName(c.Theme); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormatter(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// LogOptions converts the log section for the logging package. Call
// Validate first; unknown names fall back to defaults here.
func (c Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level, _ = logging.ParseLevel(c.Log.Level)
	opts.Formatter, _ = logging.ParseFormatter(c.Log.Format)
	return opts
}
