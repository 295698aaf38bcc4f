// Package mock provides a recording in-memory implementation of
// [playlist.Service] for unit tests.
//
// Return values are configured through exported fields; every call is
// recorded so tests can assert which remote operations ran and in what order.
//
// Example:
//
//	svc := &mock.Service{
//	    Playlists:   []playlist.Playlist{{ID: "p1", Name: "Favorites"}},
//	    SearchResult: playlist.Track{ID: "t1"},
//	    SearchFound:  true,
//	}
//	d := dispatch.New(svc)
package mock

import (
	"context"
	"sync"

	"github.com/nadzzz/voxlist/internal/playlist"
)

var _ playlist.Service = (*Service)(nil)

// SearchCall records the arguments of one SearchTrack call.
type SearchCall struct {
	Name   string
	Artist *string
}

// TrackCall records the arguments of one AddTrack or RemoveTrack call.
type TrackCall struct {
	PlaylistID string
	TrackID    string
}

// Service is a mock [playlist.Service].
type Service struct {
	mu sync.Mutex

	// CreateID is returned by CreatePlaylist.
	CreateID string
	// CreateErr is returned by CreatePlaylist.
	CreateErr error

	// Playlists is returned by ListPlaylists.
	Playlists []playlist.Playlist
	// ListErr is returned by ListPlaylists.
	ListErr error

	// SearchResult and SearchFound are returned by SearchTrack.
	SearchResult playlist.Track
	SearchFound  bool
	// SearchErr is returned by SearchTrack.
	SearchErr error

	// AddErr is returned by AddTrack.
	AddErr error
	// RemoveErr is returned by RemoveTrack.
	RemoveErr error
	// DeleteErr is returned by DeletePlaylist.
	DeleteErr error

	// Calls lists operation names in call order.
	Calls []string

	CreateCalls []string
	SearchCalls []SearchCall
	AddCalls    []TrackCall
	RemoveCalls []TrackCall
	DeleteCalls []string
	ListCount   int
}

func (s *Service) CreatePlaylist(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "create_playlist")
	s.CreateCalls = append(s.CreateCalls, name)
	if s.CreateErr != nil {
		return "", s.CreateErr
	}
	return s.CreateID, nil
}

func (s *Service) ListPlaylists(_ context.Context) ([]playlist.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "list_playlists")
	s.ListCount++
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return append([]playlist.Playlist(nil), s.Playlists...), nil
}

func (s *Service) SearchTrack(_ context.Context, name string, artist *string) (playlist.Track, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "search_track")
	s.SearchCalls = append(s.SearchCalls, SearchCall{Name: name, Artist: artist})
	if s.SearchErr != nil {
		return playlist.Track{}, false, s.SearchErr
	}
	return s.SearchResult, s.SearchFound, nil
}

func (s *Service) AddTrack(_ context.Context, playlistID, trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "add_track")
	s.AddCalls = append(s.AddCalls, TrackCall{PlaylistID: playlistID, TrackID: trackID})
	return s.AddErr
}

func (s *Service) RemoveTrack(_ context.Context, playlistID, trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "remove_track")
	s.RemoveCalls = append(s.RemoveCalls, TrackCall{PlaylistID: playlistID, TrackID: trackID})
	return s.RemoveErr
}

func (s *Service) DeletePlaylist(_ context.Context, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "delete_playlist")
	s.DeleteCalls = append(s.DeleteCalls, playlistID)
	return s.DeleteErr
}

// CallCount returns the number of calls to op.
func (s *Service) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if c == op {
			n++
		}
	}
	return n
}
