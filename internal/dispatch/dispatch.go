// Package dispatch executes structured commands against the remote playlist
// service.
//
// The dispatcher resolves spoken names to remote IDs, invokes the matching
// service operation and returns a [Result]. It never returns an error: every
// remote failure is converted into Failure{RemoteCallFailed} carrying the
// service's message. It makes a single attempt per remote call; retry policy
// belongs to the playlist.Service implementation or to the caller.
//
// Resolution order is fixed: the playlist is resolved before the track, so a
// missing playlist short-circuits the track search.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/observe"
	"github.com/nadzzz/voxlist/internal/playlist"
)

// Dispatcher runs commands against a playlist.Service. It holds no state
// between calls beyond its configuration.
type Dispatcher struct {
	service     playlist.Service
	metrics     *observe.Metrics
	suggestions bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMetrics records one dispatch result per call on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithSuggestions toggles the "did you mean" hint on PlaylistNotFound
// messages. Enabled by default.
func WithSuggestions(enabled bool) Option {
	return func(d *Dispatcher) { d.suggestions = enabled }
}

// New creates a Dispatcher over svc.
func New(svc playlist.Service, opts ...Option) *Dispatcher {
	d := &Dispatcher{service: svc, suggestions: true}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch executes cmd and reports the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd command.Command) Result {
	ctx, span := observe.StartSpan(ctx, "dispatch."+string(cmd.Action),
		trace.WithAttributes(attribute.String("playlist", cmd.Playlist)))
	defer span.End()

	res := d.dispatch(ctx, cmd)

	if !res.OK {
		span.SetStatus(codes.Error, res.Message)
		span.SetAttributes(attribute.String("reason", string(res.Reason)))
	}
	d.metrics.RecordDispatch(ctx, string(cmd.Action), res.outcome())
	observe.Logger(ctx).Info("command dispatched",
		"command", cmd.String(),
		"ok", res.OK,
		"reason", res.Reason,
		"remote_id", res.RemoteID)
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd command.Command) (res Result) {
	// A panicking client is still a failed remote call.
	defer func() {
		if r := recover(); r != nil {
			res = Failure(RemoteCallFailed, fmt.Sprintf("Error calling playlist service: %v", r))
		}
	}()

	if err := cmd.Validate(); err != nil {
		return Failure(InvalidCommand, err.Error())
	}

	switch cmd.Action {
	case command.CreatePlaylist:
		return d.createPlaylist(ctx, cmd)
	case command.AddTrack:
		return d.addTrack(ctx, cmd)
	case command.RemoveTrack:
		return d.removeTrack(ctx, cmd)
	case command.DeletePlaylist:
		return d.deletePlaylist(ctx, cmd)
	}
	// Validate rejects unknown actions.
	return Failure(InvalidCommand, fmt.Sprintf("unknown action %q", cmd.Action))
}

func (d *Dispatcher) createPlaylist(ctx context.Context, cmd command.Command) Result {
	id, err := d.service.CreatePlaylist(ctx, cmd.Playlist)
	if err != nil {
		return Failure(RemoteCallFailed, fmt.Sprintf("Error creating playlist: %v", err))
	}
	return Success(fmt.Sprintf("Playlist '%s' created successfully", cmd.Playlist), id)
}

func (d *Dispatcher) addTrack(ctx context.Context, cmd command.Command) Result {
	playlistID, fail, ok := d.resolvePlaylist(ctx, cmd.Playlist)
	if !ok {
		return fail
	}
	track, fail, ok := d.resolveTrack(ctx, cmd)
	if !ok {
		return fail
	}
	if err := d.service.AddTrack(ctx, playlistID, track.ID); err != nil {
		return Failure(RemoteCallFailed, fmt.Sprintf("Error adding track: %v", err))
	}
	return Success(fmt.Sprintf("Added '%s' to playlist '%s'", cmd.TrackName(), cmd.Playlist), track.ID)
}

func (d *Dispatcher) removeTrack(ctx context.Context, cmd command.Command) Result {
	playlistID, fail, ok := d.resolvePlaylist(ctx, cmd.Playlist)
	if !ok {
		return fail
	}
	track, fail, ok := d.resolveTrack(ctx, cmd)
	if !ok {
		return fail
	}
	if err := d.service.RemoveTrack(ctx, playlistID, track.ID); err != nil {
		return Failure(RemoteCallFailed, fmt.Sprintf("Error removing track: %v", err))
	}
	return Success(fmt.Sprintf("Removed '%s' from playlist '%s'", cmd.TrackName(), cmd.Playlist), track.ID)
}

// deletePlaylist unfollows the playlist for the current user. Other
// followers keep it; this is the service's semantics and is reported as-is.
func (d *Dispatcher) deletePlaylist(ctx context.Context, cmd command.Command) Result {
	playlistID, fail, ok := d.resolvePlaylist(ctx, cmd.Playlist)
	if !ok {
		return fail
	}
	if err := d.service.DeletePlaylist(ctx, playlistID); err != nil {
		return Failure(RemoteCallFailed, fmt.Sprintf("Error deleting playlist: %v", err))
	}
	return Success(fmt.Sprintf("Playlist '%s' has been removed from your library", cmd.Playlist), playlistID)
}

// resolvePlaylist returns the ID of the first playlist whose name equals name
// case-insensitively. When ok is false, fail is the Result to return.
func (d *Dispatcher) resolvePlaylist(ctx context.Context, name string) (id string, fail Result, ok bool) {
	playlists, err := d.service.ListPlaylists(ctx)
	if err != nil {
		return "", Failure(RemoteCallFailed, fmt.Sprintf("Error looking up playlists: %v", err)), false
	}
	for _, p := range playlists {
		if strings.EqualFold(p.Name, name) {
			return p.ID, Result{}, true
		}
	}

	msg := fmt.Sprintf("Playlist '%s' not found", name)
	if d.suggestions {
		if s, found := suggest(name, playlists); found {
			msg += fmt.Sprintf(" (did you mean '%s'?)", s)
		}
	}
	return "", Failure(PlaylistNotFound, msg), false
}

// resolveTrack runs a single search for the command's track, narrowed by
// artist when the command carries one.
func (d *Dispatcher) resolveTrack(ctx context.Context, cmd command.Command) (playlist.Track, Result, bool) {
	track, found, err := d.service.SearchTrack(ctx, cmd.TrackName(), cmd.Artist)
	if err != nil {
		return playlist.Track{}, Failure(RemoteCallFailed, fmt.Sprintf("Error searching for track: %v", err)), false
	}
	if !found || track.ID == "" {
		return playlist.Track{}, Failure(TrackNotFound, fmt.Sprintf("Track '%s' not found", cmd.TrackName())), false
	}
	return track, Result{}, true
}
