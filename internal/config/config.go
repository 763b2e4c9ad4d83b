// Package config handles the XDG configuration directory, the optional
// config.yaml file and JOT_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "jot"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// EnvPrefix prefixes every environment override (JOT_API_URL, ...).
	EnvPrefix = "JOT"

	// DefaultAPIURL is the base path of the hosted task API.
	DefaultAPIURL = "https://task-app-api-nine.vercel.app/api"

	// DefaultTimeout bounds each remote call.
	DefaultTimeout = 10 * time.Second
)

// ErrMissingSetting is returned when a required setting is empty.
var ErrMissingSetting = errors.New("missing setting")

// Settings are the values that can come from config.yaml or the environment.
type Settings struct {
	// APIURL is the task API base path, e.g. https://host/api.
	APIURL string `yaml:"api_url" envconfig:"API_URL"`

	// APISecret is sent verbatim in the "auth" header of every task API call.
	APISecret string `yaml:"api_secret" envconfig:"API_SECRET"`

	// FirebaseAPIKey is the Web API key of the Firebase project.
	FirebaseAPIKey string `yaml:"firebase_api_key" envconfig:"FIREBASE_API_KEY"`

	// Timeout bounds each remote call.
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// Config holds configuration paths and settings.
type Config struct {
	Settings

	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/jot or $HOME/.config/jot.
// Settings are left at their defaults until Load is called.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir: dir,
		Settings: Settings{
			APIURL:  DefaultAPIURL,
			Timeout: DefaultTimeout,
		},
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load layers config.yaml and then JOT_* environment variables over the
// current settings. A missing config.yaml is not an error.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.ConfigPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c.Settings); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	if err := envconfig.Process(EnvPrefix, &c.Settings); err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// RequireAPI reports whether the task API settings are usable.
func (c *Config) RequireAPI() error {
	if c.APISecret == "" {
		return fmt.Errorf("%w: api_secret (set it in %s or %s_API_SECRET)", ErrMissingSetting, c.ConfigPath(), EnvPrefix)
	}
	return nil
}

// RequireIdentity reports whether the identity provider settings are usable.
func (c *Config) RequireIdentity() error {
	if c.FirebaseAPIKey == "" {
		return fmt.Errorf("%w: firebase_api_key (set it in %s or %s_FIREBASE_API_KEY)", ErrMissingSetting, c.ConfigPath(), EnvPrefix)
	}
	return nil
}

// ConfigPath returns the path to the optional settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}
