package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestParse_CreatePlaylist(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"create playlist named road trip", "road trip"},
		{"create a playlist called road trip", "road trip"},
		{"create playlist road trip", "road trip"},
		{"create a playlist named   chill vibes  ", "chill vibes"},
		{"create playlist called named", "named"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			cmd, ok := Parse(tt.text)
			require.True(t, ok)
			assert.Equal(t, Command{Action: CreatePlaylist, Playlist: tt.want}, cmd)
			assert.Nil(t, cmd.Track)
			assert.Nil(t, cmd.Artist)
		})
	}
}

func TestParse_AddTrack(t *testing.T) {
	t.Parallel()

	cmd, ok := Parse("add bohemian rhapsody by queen to my favorites playlist")
	require.True(t, ok)
	assert.Equal(t, Command{
		Action:   AddTrack,
		Playlist: "favorites",
		Track:    str("bohemian rhapsody"),
		Artist:   str("queen"),
	}, cmd)
}

func TestParse_AddTrackWithoutPlaylistSuffix(t *testing.T) {
	t.Parallel()

	cmd, ok := Parse("add one more time by daft punk to house classics")
	require.True(t, ok)
	assert.Equal(t, AddTrack, cmd.Action)
	assert.Equal(t, "house classics", cmd.Playlist)
	assert.Equal(t, "one more time", cmd.TrackName())
	assert.Equal(t, "daft punk", cmd.ArtistName())
}

func TestParse_RemoveTrack(t *testing.T) {
	t.Parallel()

	cmd, ok := Parse("remove thriller from my halloween playlist")
	require.True(t, ok)
	assert.Equal(t, Command{
		Action:   RemoveTrack,
		Playlist: "halloween",
		Track:    str("thriller"),
	}, cmd)
	assert.Nil(t, cmd.Artist, "remove never carries an artist")
}

func TestParse_RemoveTrackWithByKeepsWholeTrack(t *testing.T) {
	t.Parallel()

	cmd, ok := Parse("remove thriller by michael jackson from my halloween playlist")
	require.True(t, ok)
	assert.Equal(t, "thriller by michael jackson", cmd.TrackName())
	assert.Nil(t, cmd.Artist)
}

func TestParse_DeletePlaylist(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"delete my workout playlist", "workout"},
		{"delete workout", "workout"},
		{"delete my late night drive", "late night drive"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			cmd, ok := Parse(tt.text)
			require.True(t, ok)
			assert.Equal(t, Command{Action: DeletePlaylist, Playlist: tt.want}, cmd)
		})
	}
}

func TestParse_NotRecognized(t *testing.T) {
	t.Parallel()

	tests := []string{
		"what's the weather today",
		"",
		"   ",
		"create playlist",
		"add bohemian rhapsody to my favorites playlist",
		"remove thriller",
		"play some music",
		// Whitespace-only track slot is rejected rather than dispatched blank.
		"add   by queen to mix",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			t.Parallel()

			cmd, ok := Parse(text)
			assert.False(t, ok)
			assert.Equal(t, Command{}, cmd)
		})
	}
}

func TestParse_PreservesCase(t *testing.T) {
	t.Parallel()

	cmd, ok := Parse("Add Bohemian Rhapsody by Queen to my Favorites Playlist")
	require.True(t, ok)
	assert.Equal(t, "Favorites", cmd.Playlist)
	assert.Equal(t, "Bohemian Rhapsody", cmd.TrackName())
	assert.Equal(t, "Queen", cmd.ArtistName())
}

func TestParse_FirstRuleWins(t *testing.T) {
	t.Parallel()

	cmd, ok := Parse("create playlist delete my workout playlist")
	require.True(t, ok)
	assert.Equal(t, CreatePlaylist, cmd.Action)
	assert.Equal(t, "delete my workout playlist", cmd.Playlist)
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"add bohemian rhapsody by queen to my favorites playlist",
		"what's the weather today",
	} {
		first, ok1 := Parse(text)
		second, ok2 := Parse(text)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	}
}

func TestParse_ResultsValidate(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"create playlist named road trip",
		"add bohemian rhapsody by queen to my favorites playlist",
		"remove thriller from my halloween playlist",
		"delete my workout playlist",
	} {
		cmd, ok := Parse(text)
		require.True(t, ok, text)
		assert.NoError(t, cmd.Validate(), text)
	}
}

func TestExamples_OnePerRule(t *testing.T) {
	t.Parallel()

	ex := Examples()
	require.Len(t, ex, 4)
	assert.Contains(t, ex[0], "create")
	assert.Contains(t, ex[3], "delete")
}
