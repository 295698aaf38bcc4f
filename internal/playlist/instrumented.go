package playlist

import (
	"context"
	"time"

	"github.com/nadzzz/voxlist/internal/observe"
)

type instrumented struct {
	next    Service
	metrics *observe.Metrics
}

// Instrumented wraps next so that each call's latency and status are recorded
// on m.
func Instrumented(next Service, m *observe.Metrics) Service {
	return &instrumented{next: next, metrics: m}
}

func (s *instrumented) record(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.RecordRemoteCall(ctx, op, err, time.Since(start))
}

func (s *instrumented) CreatePlaylist(ctx context.Context, name string) (string, error) {
	start := time.Now()
	id, err := s.next.CreatePlaylist(ctx, name)
	s.record(ctx, "create_playlist", start, err)
	return id, err
}

func (s *instrumented) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	start := time.Now()
	out, err := s.next.ListPlaylists(ctx)
	s.record(ctx, "list_playlists", start, err)
	return out, err
}

func (s *instrumented) SearchTrack(ctx context.Context, name string, artist *string) (Track, bool, error) {
	start := time.Now()
	track, found, err := s.next.SearchTrack(ctx, name, artist)
	s.record(ctx, "search_track", start, err)
	return track, found, err
}

func (s *instrumented) AddTrack(ctx context.Context, playlistID, trackID string) error {
	start := time.Now()
	err := s.next.AddTrack(ctx, playlistID, trackID)
	s.record(ctx, "add_track", start, err)
	return err
}

func (s *instrumented) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	start := time.Now()
	err := s.next.RemoveTrack(ctx, playlistID, trackID)
	s.record(ctx, "remove_track", start, err)
	return err
}

func (s *instrumented) DeletePlaylist(ctx context.Context, playlistID string) error {
	start := time.Now()
	err := s.next.DeletePlaylist(ctx, playlistID)
	s.record(ctx, "delete_playlist", start, err)
	return err
}
