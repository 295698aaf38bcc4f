package playlist

import (
	"context"
	"log/slog"
	"time"

	"gopkg.in/cenkalti/backoff.v1"
)

// RetryConfig tunes [Retrying]. Zero fields take the defaults noted below.
type RetryConfig struct {
	// MaxAttempts bounds the number of calls per operation, first call
	// included. Default: 3.
	MaxAttempts int

	// InitialInterval is the first backoff wait. Default: 200ms.
	InitialInterval time.Duration

	// MaxInterval caps a single backoff wait. Default: 2s.
	MaxInterval time.Duration

	// MaxElapsedTime caps the total time spent retrying one operation.
	// Default: 10s.
	MaxElapsedTime time.Duration
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 200 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 2 * time.Second
	}
	if c.MaxElapsedTime <= 0 {
		c.MaxElapsedTime = 10 * time.Second
	}
	return c
}

// retrying retries idempotent operations with exponential backoff.
// CreatePlaylist and AddTrack are not idempotent on the remote side and are
// called exactly once.
type retrying struct {
	next Service
	cfg  RetryConfig
}

// Retrying wraps next so that transient failures of idempotent operations are
// retried. Errors marked with [Permanent] are returned immediately.
func Retrying(next Service, cfg RetryConfig) Service {
	return &retrying{next: next, cfg: cfg.withDefaults()}
}

func (r *retrying) CreatePlaylist(ctx context.Context, name string) (string, error) {
	return r.next.CreatePlaylist(ctx, name)
}

func (r *retrying) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	var out []Playlist
	err := r.do(ctx, "list_playlists", func() error {
		var err error
		out, err = r.next.ListPlaylists(ctx)
		return err
	})
	return out, err
}

func (r *retrying) SearchTrack(ctx context.Context, name string, artist *string) (Track, bool, error) {
	var (
		track Track
		found bool
	)
	err := r.do(ctx, "search_track", func() error {
		var err error
		track, found, err = r.next.SearchTrack(ctx, name, artist)
		return err
	})
	return track, found, err
}

func (r *retrying) AddTrack(ctx context.Context, playlistID, trackID string) error {
	return r.next.AddTrack(ctx, playlistID, trackID)
}

func (r *retrying) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	return r.do(ctx, "remove_track", func() error {
		return r.next.RemoveTrack(ctx, playlistID, trackID)
	})
}

func (r *retrying) DeletePlaylist(ctx context.Context, playlistID string) error {
	return r.do(ctx, "delete_playlist", func() error {
		return r.next.DeletePlaylist(ctx, playlistID)
	})
}

// do runs fn until it succeeds, fails permanently, exhausts MaxAttempts or the
// backoff gives up. The last error is returned; a permanent error keeps its
// marker.
func (r *retrying) do(ctx context.Context, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = r.cfg.MaxElapsedTime

	var attempts int
	return backoff.RetryNotify(func() error {
		attempts++
		err := fn()
		if err == nil {
			return nil
		}
		// RetryNotify strips one PermanentError layer.
		if IsPermanent(err) || attempts >= r.cfg.MaxAttempts {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		slog.Warn("playlist call failed, retrying",
			"op", op,
			"attempt", attempts,
			"wait", wait,
			"error", err)
	})
}
