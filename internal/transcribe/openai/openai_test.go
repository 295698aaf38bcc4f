package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/voxlist/internal/transcribe"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Transcriber {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	noRetries := 0
	tr, err := New(Config{APIKey: "test", BaseURL: srv.URL + "/", Model: "whisper-1", MaxRetries: &noRetries})
	require.NoError(t, err)
	return tr
}

func TestTranscribe(t *testing.T) {
	t.Parallel()

	var model, lang, fileName string
	tr := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		model = r.FormValue("model")
		lang = r.FormValue("language")
		if _, hdr, err := r.FormFile("file"); err == nil {
			fileName = hdr.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"text":" Add Thriller by Michael Jackson to my Halloween playlist. "}`)
	})

	text, err := tr.Transcribe(context.Background(), []byte("RIFF"), "audio/ogg", transcribe.Opts{Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "add thriller by michael jackson to my halloween playlist.", text)
	assert.Equal(t, "whisper-1", model)
	assert.Equal(t, "en", lang)
	assert.Equal(t, "audio.ogg", fileName)
}

func TestTranscribe_EmptyTranscriptIsNoSpeech(t *testing.T) {
	t.Parallel()

	tr := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"text":"  "}`)
	})

	_, err := tr.Transcribe(context.Background(), []byte("RIFF"), "audio/wav", transcribe.Opts{})
	assert.ErrorIs(t, err, transcribe.ErrNoSpeech)
}

func TestTranscribe_ServerErrorIsUnrecognized(t *testing.T) {
	t.Parallel()

	tr := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"invalid file format","type":"invalid_request_error"}}`)
	})

	_, err := tr.Transcribe(context.Background(), []byte("RIFF"), "audio/wav", transcribe.Opts{})
	assert.ErrorIs(t, err, transcribe.ErrUnrecognized)
}

func TestTranscribe_NoAudio(t *testing.T) {
	t.Parallel()

	tr, err := New(Config{APIKey: "test"})
	require.NoError(t, err)
	_, err = tr.Transcribe(context.Background(), nil, "audio/wav", transcribe.Opts{})
	assert.ErrorIs(t, err, transcribe.ErrNoSpeech)
}

func TestNew_RequiresKeyOrBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	assert.Error(t, err)
}
