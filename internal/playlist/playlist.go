// Package playlist defines the remote playlist service the dispatcher acts on.
//
// The service owns its own session and transport; callers treat it as opaque
// and must not invoke one Service from several goroutines at once unless the
// implementation says otherwise. Concrete backends live in subpackages
// (spotify) and decorators in this package add retries and instrumentation.
package playlist

import (
	"context"
	"errors"

	"gopkg.in/cenkalti/backoff.v1"
)

// Playlist is an entry of the current user's playlist collection.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track is a search hit.
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist,omitempty"`
}

// Service is the remote playlist API.
type Service interface {
	// CreatePlaylist creates a playlist owned by the current user and returns
	// its remote ID.
	CreatePlaylist(ctx context.Context, name string) (string, error)

	// ListPlaylists returns the current user's playlist collection.
	ListPlaylists(ctx context.Context) ([]Playlist, error)

	// SearchTrack returns the top-ranked track for name, narrowed to artist
	// when artist is non-nil. found is false when the search has no hits.
	SearchTrack(ctx context.Context, name string, artist *string) (track Track, found bool, err error)

	// AddTrack appends trackID to playlistID.
	AddTrack(ctx context.Context, playlistID, trackID string) error

	// RemoveTrack removes every occurrence of trackID from playlistID.
	RemoveTrack(ctx context.Context, playlistID, trackID string) error

	// DeletePlaylist removes playlistID from the current user's library. On
	// services with follow semantics this unfollows the playlist; it is not
	// destroyed for other followers.
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// Permanent wraps err so that [Retrying] gives up on it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with [Permanent].
func IsPermanent(err error) bool {
	var pe *backoff.PermanentError
	return errors.As(err, &pe)
}
