package transcribe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "create a playlist named road trip", Normalize("  Create a Playlist named Road Trip\n"))
	assert.Equal(t, "", Normalize(" \t "))
}

func TestResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	text, err := Result(ctx, " Delete my Workout playlist ", nil)
	require.NoError(t, err)
	assert.Equal(t, "delete my workout playlist", text)

	_, err = Result(ctx, "   ", nil)
	assert.ErrorIs(t, err, ErrNoSpeech)

	_, err = Result(ctx, "", errors.New("status 500"))
	assert.ErrorIs(t, err, ErrUnrecognized)
	assert.ErrorContains(t, err, "status 500")

	_, err = Result(ctx, "", context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrUnrecognized)
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"audio/wav":                "audio.wav",
		"audio/ogg; codecs=opus":   "audio.ogg",
		"audio/mpeg":               "audio.mp3",
		"audio/flac":               "audio.flac",
		"audio/webm":               "audio.webm",
		"audio/mp4":                "audio.m4a",
		"application/octet-stream": "audio.wav",
	}
	for ct, want := range tests {
		assert.Equal(t, want, FileName(ct), ct)
	}
}
