package config

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ayoisaiah/focusroom/internal/interval"
	"github.com/ayoisaiah/focusroom/timer"
)

var validSoundExts = []string{".mp3", ".ogg", ".flac", ".wav"}

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if c.Timer.Work < interval.MinWorkMinutes ||
		c.Timer.Work > interval.MaxWorkMinutes {
		return errInvalidDuration.Fmt(
			"work",
			interval.MinWorkMinutes,
			interval.MaxWorkMinutes,
		)
	}

	if c.Timer.Break < interval.MinBreakMinutes ||
		c.Timer.Break > interval.MaxBreakMinutes {
		return errInvalidDuration.Fmt(
			"break",
			interval.MinBreakMinutes,
			interval.MaxBreakMinutes,
		)
	}

	if err := ValidateSound(c.Alert.Sound); err != nil {
		return err
	}

	return c.validateStore()
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendLocal:
	case BackendRemote:
		u, err := url.Parse(c.Store.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errInvalidStoreURL.Fmt(c.Store.URL)
		}
	default:
		return errInvalidBackend.Fmt(c.Store.Backend)
	}

	if c.Store.TokenTTL <= 0 {
		return errInvalidTokenTTL
	}

	return nil
}

// ValidateSound accepts tone, off, or a path to an mp3, ogg, flac or wav
// file.
func ValidateSound(sound string) error {
	switch sound {
	case "", timer.SoundTone, timer.SoundOff:
		return nil
	}

	ext := strings.ToLower(filepath.Ext(sound))
	if !slices.Contains(validSoundExts, ext) {
		return errInvalidSoundFormat.Fmt(sound)
	}

	return nil
}
