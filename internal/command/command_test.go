package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmd     Command
		wantErr bool
	}{
		{"create ok", Command{Action: CreatePlaylist, Playlist: "mix"}, false},
		{"create with track", Command{Action: CreatePlaylist, Playlist: "mix", Track: str("x")}, true},
		{"blank playlist", Command{Action: DeletePlaylist, Playlist: "  "}, true},
		{"add ok", Command{Action: AddTrack, Playlist: "mix", Track: str("t"), Artist: str("a")}, false},
		{"add missing artist", Command{Action: AddTrack, Playlist: "mix", Track: str("t")}, true},
		{"add empty track", Command{Action: AddTrack, Playlist: "mix", Track: str(""), Artist: str("a")}, true},
		{"remove ok", Command{Action: RemoveTrack, Playlist: "mix", Track: str("t")}, false},
		{"remove empty artist", Command{Action: RemoveTrack, Playlist: "mix", Track: str("t"), Artist: str(" ")}, true},
		{"unknown action", Command{Action: "shuffle", Playlist: "mix"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cmd.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	cmd := Command{Action: AddTrack, Playlist: "mix", Track: str("song"), Artist: str("band")}
	assert.Equal(t, `add_track playlist="mix" track="song" artist="band"`, cmd.String())

	assert.Equal(t, `delete_playlist playlist="mix"`, Command{Action: DeletePlaylist, Playlist: "mix"}.String())
}
