package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io/fs"

	"github.com/spf13/viper"

	"github.com/ayoisaiah/focusroom/internal/interval"
	"github.com/ayoisaiah/focusroom/timer"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyWork       = "timer.work"
	keyBreak      = "timer.break"
	keySound      = "alert.sound"
	keyNotify     = "alert.notify"
	keyCmd        = "alert.cmd"
	keyBackend    = "store.backend"
	keyStoreURL   = "store.url"
	keySecret     = "store.secret"
	keyTokenTTL   = "store.token_ttl"
	keyServerAddr = "server.addr"
	keyDarkTheme  = "display.dark_theme"
)

// DefaultStoreURL is where focusroomd listens by default.
const DefaultStoreURL = "http://localhost:8420"

// newSecret generates the token signing secret written on first run.
var newSecret = func() (string, error) {
	b := make([]byte, 32)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// WithViperConfig returns an Option that loads configuration from Viper.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		c.System.ConfigPath = configPath

		err := v.ReadInConfig()

		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.Is(err, fs.ErrNotExist) &&
			!errors.As(err, &notFound) {
			return errReadConfig.Wrap(err)
		}

		// a missing file or secret is written back with generated values
		if err != nil || v.GetString(keySecret) == "" {
			secret, serr := newSecret()
			if serr != nil {
				return serr
			}

			v.Set(keySecret, secret)

			if werr := v.WriteConfig(); werr != nil {
				return errWriteConfig.Wrap(werr)
			}
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyWork, interval.DefaultWorkMinutes)
	v.SetDefault(keyBreak, interval.DefaultBreakMinutes)
	v.SetDefault(keySound, timer.SoundTone)
	v.SetDefault(keyNotify, true)
	v.SetDefault(keyCmd, "")
	v.SetDefault(keyBackend, BackendLocal)
	v.SetDefault(keyStoreURL, DefaultStoreURL)
	v.SetDefault(keySecret, "")
	v.SetDefault(keyTokenTTL, "720h")
	v.SetDefault(keyServerAddr, ":8420")
	v.SetDefault(keyDarkTheme, true)

	if c.Timer.Work != 0 {
		v.Set(keyWork, c.Timer.Work)
	}

	if c.Timer.Break != 0 {
		v.Set(keyBreak, c.Timer.Break)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	err := v.Unmarshal(c)
	if err != nil {
		return errReadConfig.Wrap(err)
	}

	return nil
}
