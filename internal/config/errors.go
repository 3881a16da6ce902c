package config

import "github.com/ayoisaiah/focusroom/internal/apperr"

var (
	errConfigOption = apperr.Validation("config option error")

	errReadConfig = apperr.Validation("reading config file failed")

	errWriteConfig = apperr.Validation("writing default config failed")

	errInvalidSoundFormat = apperr.Validation(
		"invalid sound: %s (must be tone, off, or an mp3, ogg, flac, or wav file)",
	)

	errInvalidDuration = apperr.Validation(
		"%s duration must be between %d and %d minutes",
	)

	errInvalidBackend = apperr.Validation(
		"unknown store backend: %q (must be local or remote)",
	)

	errInvalidStoreURL = apperr.Validation("invalid store url: %q")

	errInvalidTokenTTL = apperr.Validation("store token ttl must be positive")
)
