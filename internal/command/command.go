// Package command turns a transcribed utterance into a structured playlist
// command.
//
// Parsing is a pure function over the text: the grammar is an ordered list of
// rules evaluated top to bottom and the first rule that matches with every
// slot non-empty wins. Text that matches no rule is a normal outcome (the
// caller tells the user the command was not recognised), never an error.
package command

import (
	"errors"
	"fmt"
	"strings"
)

// Action is the verb of a structured command.
type Action string

const (
	// CreatePlaylist creates a new playlist named Playlist.
	CreatePlaylist Action = "create_playlist"

	// AddTrack adds the top search match for Track (by Artist) to Playlist.
	AddTrack Action = "add_track"

	// RemoveTrack removes every occurrence of the top search match for Track
	// from Playlist.
	RemoveTrack Action = "remove_track"

	// DeletePlaylist removes Playlist from the user's library.
	DeletePlaylist Action = "delete_playlist"
)

// Command is the parser's typed output. A nil slot is absent, which is
// distinct from an empty string: a present slot is never empty.
type Command struct {
	// Action selects the remote operation.
	Action Action `json:"action"`

	// Playlist is the spoken playlist name, case preserved.
	Playlist string `json:"playlist_name"`

	// Track is set for AddTrack and RemoveTrack only.
	Track *string `json:"track_name,omitempty"`

	// Artist is set for AddTrack only. The grammar has no artist slot for
	// RemoveTrack.
	Artist *string `json:"artist_name,omitempty"`
}

// TrackName returns the track slot, or "" when absent.
func (c Command) TrackName() string {
	if c.Track == nil {
		return ""
	}
	return *c.Track
}

// ArtistName returns the artist slot, or "" when absent.
func (c Command) ArtistName() string {
	if c.Artist == nil {
		return ""
	}
	return *c.Artist
}

// String renders the command for logs.
func (c Command) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s playlist=%q", c.Action, c.Playlist)
	if c.Track != nil {
		fmt.Fprintf(&sb, " track=%q", *c.Track)
	}
	if c.Artist != nil {
		fmt.Fprintf(&sb, " artist=%q", *c.Artist)
	}
	return sb.String()
}

// ErrInvalid is wrapped by every error returned from [Command.Validate].
var ErrInvalid = errors.New("invalid command")

// Validate checks the per-action slot shape. Commands produced by [Parse]
// always validate; commands decoded from a transport might not.
func (c Command) Validate() error {
	if strings.TrimSpace(c.Playlist) == "" {
		return fmt.Errorf("%w: playlist name is required", ErrInvalid)
	}

	switch c.Action {
	case CreatePlaylist, DeletePlaylist:
		if c.Track != nil || c.Artist != nil {
			return fmt.Errorf("%w: %s takes no track or artist", ErrInvalid, c.Action)
		}
	case AddTrack:
		if blank(c.Track) {
			return fmt.Errorf("%w: track name is required", ErrInvalid)
		}
		if blank(c.Artist) {
			return fmt.Errorf("%w: artist name is required", ErrInvalid)
		}
	case RemoveTrack:
		if blank(c.Track) {
			return fmt.Errorf("%w: track name is required", ErrInvalid)
		}
		if c.Artist != nil && strings.TrimSpace(*c.Artist) == "" {
			return fmt.Errorf("%w: artist name must not be empty", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalid, c.Action)
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
