// Package transcribe defines the speech-to-text collaborator that turns an
// utterance's audio into text for the command parser.
//
// Backends return normalised text or one of the sentinel errors below. The
// turn layer treats any error as "do not parse".
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel outcomes for an utterance that produced no usable text.
var (
	// ErrNoSpeech means the audio contained no speech.
	ErrNoSpeech = errors.New("no speech detected")

	// ErrTimeout means the backend did not answer in time.
	ErrTimeout = errors.New("timed out waiting for transcription")

	// ErrUnrecognized means the backend could not turn the audio into text,
	// including backend and transport failures.
	ErrUnrecognized = errors.New("speech not recognized")
)

// Opts controls transcription behavior.
type Opts struct {
	// Language is the ISO-639-1 code (e.g., "en") to guide transcription.
	Language string

	// Prompt provides context to improve recognition of playlist and track
	// names.
	Prompt string
}

// Transcriber converts audio bytes to text.
type Transcriber interface {
	// Name returns the backend identifier (e.g., "openai", "asr").
	Name() string

	// Transcribe returns the normalised transcript of audio.
	Transcribe(ctx context.Context, audio []byte, contentType string, opts Opts) (string, error)
}

// Normalize lowercases and trims a raw transcript.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Result turns a backend's raw answer into the package contract: a normalised
// transcript, ErrNoSpeech for an empty one, and a sentinel-wrapped error for
// any failure.
func Result(ctx context.Context, text string, err error) (string, error) {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrUnrecognized, err)
	}
	text = Normalize(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// FileName returns an upload file name whose extension matches contentType.
// Speech-to-text services sniff the container from the extension.
func FileName(contentType string) string {
	switch {
	case strings.Contains(contentType, "wav"):
		return "audio.wav"
	case strings.Contains(contentType, "ogg"):
		return "audio.ogg"
	case strings.Contains(contentType, "mp3"), strings.Contains(contentType, "mpeg"):
		return "audio.mp3"
	case strings.Contains(contentType, "flac"):
		return "audio.flac"
	case strings.Contains(contentType, "webm"):
		return "audio.webm"
	case strings.Contains(contentType, "m4a"), strings.Contains(contentType, "mp4"):
		return "audio.m4a"
	default:
		return "audio.wav"
	}
}
