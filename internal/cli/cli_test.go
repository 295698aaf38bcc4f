package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/config"
	"github.com/nadzzz/voxlist/internal/playlist"
	"github.com/nadzzz/voxlist/internal/playlist/mock"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "voxlist dev\n", out)
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "parse", "Add", "Bohemian Rhapsody by Queen to my Favorites playlist")
	require.NoError(t, err)

	var got command.Command
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, command.AddTrack, got.Action)
	assert.Equal(t, "favorites", got.Playlist)
	assert.Equal(t, "bohemian rhapsody", got.TrackName())
	assert.Equal(t, "queen", got.ArtistName())
}

func TestParseCommand_NotRecognized(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "parse", "play", "something")
	assert.ErrorIs(t, err, errNotRecognized)
}

func TestNewTranscriber(t *testing.T) {
	t.Parallel()

	stt, err := newTranscriber(config.TranscriberConfig{Backend: "none"})
	require.NoError(t, err)
	assert.Nil(t, stt)

	stt, err = newTranscriber(config.TranscriberConfig{Backend: "asr", ASR: config.ASRConfig{Endpoint: "http://whisper:9000/asr"}})
	require.NoError(t, err)
	assert.Equal(t, "asr", stt.Name())

	_, err = newTranscriber(config.TranscriberConfig{Backend: "openai"})
	assert.Error(t, err, "an api key or base url is required")

	_, err = newTranscriber(config.TranscriberConfig{Backend: "sonar"})
	assert.Error(t, err)
}

func TestDecoratedServiceRetriesReads(t *testing.T) {
	t.Parallel()

	svc := &mock.Service{ListErr: errors.New("503")}
	decorated := withDecorators(svc, config.RetryConfig{MaxAttempts: 2}, nil)

	_, err := decorated.ListPlaylists(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, svc.ListCount)
}

func TestListenLoopEndToEnd(t *testing.T) {
	t.Parallel()

	svc := &mock.Service{
		Playlists:    []playlist.Playlist{{ID: "p1", Name: "Favorites"}},
		SearchResult: playlist.Track{ID: "t1"},
		SearchFound:  true,
	}
	cfg := &config.Config{Dispatch: config.DispatchConfig{Suggestions: true}}
	proc := newProcessor(cfg, withDecorators(svc, config.RetryConfig{MaxAttempts: 1}, nil), nil, nil)

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("remove yesterday from my favorites playlist\n"))
	cmd.SetOut(&out)

	require.NoError(t, runLoop(context.Background(), cmd, "console", proc))
	assert.Contains(t, out.String(), "Success! Removed 'yesterday' from playlist 'favorites'.")
	assert.Equal(t, []mock.TrackCall{{PlaylistID: "p1", TrackID: "t1"}}, svc.RemoveCalls)
}
