// Package config loads focusroom settings from the config file and the
// command line
package config

import (
	"fmt"
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings
	Config struct {
		Timer   TimerConfig   `mapstructure:"timer"`
		Alert   AlertConfig   `mapstructure:"alert"`
		Store   StoreConfig   `mapstructure:"store"`
		Server  ServerConfig  `mapstructure:"server"`
		Display DisplayConfig `mapstructure:"display"`
		System  SystemConfig  `mapstructure:"-"`
	}

	// TimerConfig holds the interval lengths in minutes
	TimerConfig struct {
		Work  int `mapstructure:"work"`
		Break int `mapstructure:"break"`
	}

	// AlertConfig holds the phase expiry side effects
	AlertConfig struct {
		Sound  string `mapstructure:"sound"`
		Cmd    string `mapstructure:"cmd"`
		Notify bool   `mapstructure:"notify"`
	}

	// StoreConfig selects and configures the data store
	StoreConfig struct {
		Backend  string        `mapstructure:"backend"`
		URL      string        `mapstructure:"url"`
		Secret   string        `mapstructure:"secret"`
		TokenTTL time.Duration `mapstructure:"token_ttl"`
	}

	// ServerConfig configures focusroomd
	ServerConfig struct {
		Addr string `mapstructure:"addr"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		DarkTheme bool `mapstructure:"dark_theme"`
		NoColor   bool `mapstructure:"-"`
	}

	// SystemConfig holds system-related settings
	SystemConfig struct {
		ConfigPath string
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config and applies opts in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Remote reports whether the remote store service is used.
func (c *Config) Remote() bool {
	return c.Store.Backend == BackendRemote
}

// Describe writes the effective settings to w. The store secret is masked.
func (c *Config) Describe(w io.Writer) {
	secret := ""
	if c.Store.Secret != "" {
		secret = "********"
	}

	rows := []struct {
		key   string
		value any
	}{
		{keyWork, c.Timer.Work},
		{keyBreak, c.Timer.Break},
		{keySound, c.Alert.Sound},
		{keyNotify, c.Alert.Notify},
		{keyCmd, c.Alert.Cmd},
		{keyBackend, c.Store.Backend},
		{keyStoreURL, c.Store.URL},
		{keySecret, secret},
		{keyTokenTTL, c.Store.TokenTTL},
		{keyServerAddr, c.Server.Addr},
		{keyDarkTheme, c.Display.DarkTheme},
	}

	for _, r := range rows {
		fmt.Fprintf(w, "%-18s = %v\n", r.key, r.value)
	}
}
