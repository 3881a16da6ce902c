package timer

import "github.com/ayoisaiah/focusroom/internal/apperr"

var errInvalidSoundFormat = apperr.Validation(
	"sound file must be in mp3, ogg, flac, or wav format: %s",
)
