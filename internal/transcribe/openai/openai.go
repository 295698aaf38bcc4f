// Package openai implements transcribe.Transcriber on the OpenAI audio
// transcription API.
//
// Setting a base URL points the client at any OpenAI-compatible server
// (whisper.cpp server, faster-whisper, speaches), which is how self-hosted
// speech-to-text is wired.
package openai

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nadzzz/voxlist/internal/transcribe"
)

// DefaultModel is the transcription model used when none is configured.
const DefaultModel = "whisper-1"

var _ transcribe.Transcriber = (*Transcriber)(nil)

// Config holds the OpenAI transcription settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
	Timeout  time.Duration

	// MaxRetries overrides the SDK's retry count when non-nil.
	MaxRetries *int
}

// Transcriber sends audio to the transcription endpoint.
type Transcriber struct {
	client   oai.Client
	model    string
	language string
}

// New creates a Transcriber from cfg.
func New(cfg Config) (*Transcriber, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("openai transcriber: api_key must not be empty")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	if cfg.MaxRetries != nil {
		reqOpts = append(reqOpts, option.WithMaxRetries(*cfg.MaxRetries))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Transcriber{
		client:   oai.NewClient(reqOpts...),
		model:    model,
		language: cfg.Language,
	}, nil
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "openai" }

// Transcribe uploads audio and returns the normalised transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string, opts transcribe.Opts) (string, error) {
	if len(audio) == 0 {
		return "", transcribe.ErrNoSpeech
	}

	params := oai.AudioTranscriptionNewParams{
		File:  oai.File(bytes.NewReader(audio), transcribe.FileName(contentType), contentType),
		Model: oai.AudioModel(t.model),
	}
	lang := opts.Language
	if lang == "" {
		lang = t.language
	}
	if lang != "" {
		params.Language = oai.String(lang)
	}
	if opts.Prompt != "" {
		params.Prompt = oai.String(opts.Prompt)
	}

	res, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return transcribe.Result(ctx, "", err)
	}

	slog.Debug("transcription complete", "backend", t.Name(), "text_length", len(res.Text))
	return transcribe.Result(ctx, res.Text, nil)
}
