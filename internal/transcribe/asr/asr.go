// Package asr implements transcribe.Transcriber on a self-hosted
// whisper-asr-webservice instance.
//
// API: POST /asr?task=transcribe&output=json&language=en&vad_filter=true
// with the audio in the multipart field "audio_file".
package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/nadzzz/voxlist/internal/transcribe"
)

var _ transcribe.Transcriber = (*Transcriber)(nil)

// Config holds the whisper-asr-webservice settings.
type Config struct {
	Endpoint  string
	Language  string
	VADFilter bool
	Timeout   time.Duration
}

// Transcriber posts audio to the ASR endpoint.
type Transcriber struct {
	endpoint  string
	language  string
	vadFilter bool
	client    *http.Client
}

// New creates a Transcriber from cfg.
func New(cfg Config) (*Transcriber, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("asr transcriber: endpoint must not be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Transcriber{
		endpoint:  cfg.Endpoint,
		language:  cfg.Language,
		vadFilter: cfg.VADFilter,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "asr" }

// Transcribe uploads audio and returns the normalised transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string, opts transcribe.Opts) (string, error) {
	if len(audio) == 0 {
		return "", transcribe.ErrNoSpeech
	}
	text, err := t.post(ctx, audio, contentType, opts)
	return transcribe.Result(ctx, text, err)
}

func (t *Transcriber) post(ctx context.Context, audio []byte, contentType string, opts transcribe.Opts) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("audio_file", transcribe.FileName(contentType))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	q := make(url.Values)
	q.Set("task", "transcribe")
	q.Set("output", "json")
	q.Set("encode", "true")

	lang := opts.Language
	if lang == "" {
		lang = t.language
	}
	if lang != "" {
		q.Set("language", lang)
	}
	if opts.Prompt != "" {
		q.Set("initial_prompt", opts.Prompt)
	}
	if t.vadFilter {
		q.Set("vad_filter", "true")
	}

	reqURL := t.endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	slog.Debug("whisper-asr request", "url", reqURL)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("asr transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("asr transcription failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding asr response: %w", err)
	}

	slog.Debug("asr transcription complete", "text_length", len(result.Text), "language", result.Language)
	return result.Text, nil
}
