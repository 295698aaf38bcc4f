package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nadzzz/voxlist/internal/config"
	"github.com/nadzzz/voxlist/internal/dispatch"
	"github.com/nadzzz/voxlist/internal/observe"
	"github.com/nadzzz/voxlist/internal/playlist"
	"github.com/nadzzz/voxlist/internal/playlist/spotify"
	"github.com/nadzzz/voxlist/internal/transcribe"
	"github.com/nadzzz/voxlist/internal/transcribe/asr"
	openaistt "github.com/nadzzz/voxlist/internal/transcribe/openai"
	"github.com/nadzzz/voxlist/internal/turn"
)

// newPlaylistService opens the Spotify session and wraps it with metrics and
// retries. Metrics sit inside the retry layer so every attempt is recorded.
func newPlaylistService(ctx context.Context, cfg config.SpotifyConfig, met *observe.Metrics) (playlist.Service, error) {
	client, err := spotify.New(ctx, spotify.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		RefreshToken: cfg.RefreshToken,
	})
	if err != nil {
		return nil, err
	}
	return withDecorators(client, cfg.Retry, met), nil
}

func withDecorators(svc playlist.Service, retry config.RetryConfig, met *observe.Metrics) playlist.Service {
	return playlist.Retrying(playlist.Instrumented(svc, met), playlist.RetryConfig{
		MaxAttempts:     retry.MaxAttempts,
		InitialInterval: retry.InitialInterval,
		MaxInterval:     retry.MaxInterval,
		MaxElapsedTime:  retry.MaxElapsedTime,
	})
}

// newTranscriber returns the configured speech-to-text backend, or nil for
// "none".
func newTranscriber(cfg config.TranscriberConfig) (transcribe.Transcriber, error) {
	switch cfg.Backend {
	case "openai":
		t, err := openaistt.New(openaistt.Config{
			APIKey:   cfg.OpenAI.APIKey,
			BaseURL:  cfg.OpenAI.BaseURL,
			Model:    cfg.OpenAI.Model,
			Language: cfg.Language,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("using OpenAI transcriber", "model", cfg.OpenAI.Model, "base_url", cfg.OpenAI.BaseURL)
		return t, nil
	case "asr":
		t, err := asr.New(asr.Config{
			Endpoint:  cfg.ASR.Endpoint,
			Language:  cfg.Language,
			VADFilter: cfg.ASR.VADFilter,
			Timeout:   cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("using whisper-asr transcriber", "endpoint", cfg.ASR.Endpoint)
		return t, nil
	case "none":
		slog.Info("transcription disabled; audio input will be rejected")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Backend)
}

// newProcessor builds the turn pipeline over svc.
func newProcessor(cfg *config.Config, svc playlist.Service, stt transcribe.Transcriber, met *observe.Metrics) *turn.Processor {
	d := dispatch.New(svc,
		dispatch.WithMetrics(met),
		dispatch.WithSuggestions(cfg.Dispatch.Suggestions),
	)

	opts := []turn.Option{
		turn.WithMetrics(met),
		turn.WithTranscribeOpts(transcribe.Opts{
			Language: cfg.Transcriber.Language,
			Prompt:   cfg.Transcriber.Prompt,
		}),
	}
	if stt != nil {
		opts = append(opts, turn.WithTranscriber(stt))
	}
	return turn.NewProcessor(d, opts...)
}
