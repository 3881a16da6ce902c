package timer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	// SoundTone plays the built-in alert tone.
	SoundTone = "tone"
	// SoundOff disables the alert sound.
	SoundOff = "off"
)

const (
	speakerRate  beep.SampleRate = 44100
	toneFreq                     = 880.0
	toneDuration                 = 250 * time.Millisecond
	toneGap                      = 120 * time.Millisecond
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		bufferSize := 10

		speakerErr = speaker.Init(
			speakerRate,
			speakerRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
	})

	return speakerErr
}

// toneStream returns two short beeps.
func toneStream() (beep.Streamer, error) {
	sine, err := generators.SineTone(speakerRate, toneFreq)
	if err != nil {
		return nil, err
	}

	beepOnce := func() beep.Streamer {
		return beep.Take(speakerRate.N(toneDuration), sine)
	}

	return beep.Seq(
		beepOnce(),
		generators.Silence(speakerRate.N(toneGap)),
		beepOnce(),
	), nil
}

// decodeFile decodes an audio file and resamples it for the speaker.
func decodeFile(path string) (beep.Streamer, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		err = errInvalidSoundFormat.Fmt(path)
	}

	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return beep.Resample(4, format.SampleRate, speakerRate, stream), stream, nil
}

// playSound plays sound and blocks until it finishes.
func playSound(sound string) error {
	if sound == "" || sound == SoundOff {
		return nil
	}

	var (
		stream beep.Streamer
		closer io.Closer
		err    error
	)

	if sound == SoundTone {
		stream, err = toneStream()
	} else {
		stream, closer, err = decodeFile(sound)
	}

	if err != nil {
		return fmt.Errorf("prepare sound: %w", err)
	}

	if closer != nil {
		defer closer.Close()
	}

	err = initSpeaker()
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))

	<-done

	return nil
}
