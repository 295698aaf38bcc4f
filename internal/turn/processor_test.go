package turn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/dispatch"
	"github.com/nadzzz/voxlist/internal/message"
	"github.com/nadzzz/voxlist/internal/playlist"
	"github.com/nadzzz/voxlist/internal/playlist/mock"
	"github.com/nadzzz/voxlist/internal/transcribe"
)

type fakeTranscriber struct {
	text  string
	err   error
	calls int
	opts  transcribe.Opts
}

func (f *fakeTranscriber) Name() string { return "fake" }

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string, opts transcribe.Opts) (string, error) {
	f.calls++
	f.opts = opts
	return f.text, f.err
}

func library() *mock.Service {
	return &mock.Service{
		Playlists:    []playlist.Playlist{{ID: "p-hw", Name: "Halloween"}},
		SearchResult: playlist.Track{ID: "t-thriller"},
		SearchFound:  true,
		CreateID:     "p-new",
	}
}

func TestHandle_TextSuccess(t *testing.T) {
	t.Parallel()

	svc := library()
	p := NewProcessor(dispatch.New(svc))

	res, err := p.Handle(context.Background(), &message.Message{Text: "  Add Thriller by Michael Jackson to my Halloween playlist "})
	require.NoError(t, err)

	assert.NotEmpty(t, res.MessageID)
	assert.Equal(t, message.Succeeded, res.Outcome)
	assert.Equal(t, "add thriller by michael jackson to my halloween playlist", res.Transcript)
	require.NotNil(t, res.Command)
	assert.Equal(t, command.AddTrack, res.Command.Action)
	require.NotNil(t, res.Result)
	assert.True(t, res.Result.OK)
	assert.Equal(t, "Success! Added 'thriller' to playlist 'halloween'. Check your playlist to listen to it!", res.ResponseText)
	assert.Equal(t, []mock.TrackCall{{PlaylistID: "p-hw", TrackID: "t-thriller"}}, svc.AddCalls)
}

func TestHandle_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		msg      *message.Message
		tr       *fakeTranscriber
		outcome  message.Outcome
		response string
		svcCalls int
	}{
		{
			name:     "blank text",
			msg:      &message.Message{Text: "   "},
			outcome:  message.NotTranscribed,
			response: "Error: Timeout: No speech detected. Please try again.",
		},
		{
			name:     "audio timeout",
			msg:      &message.Message{Audio: []byte{1}},
			tr:       &fakeTranscriber{err: fmt.Errorf("%w: deadline", transcribe.ErrTimeout)},
			outcome:  message.NotTranscribed,
			response: "Error: Timeout: No speech detected. Please try again.",
		},
		{
			name:     "audio unrecognized",
			msg:      &message.Message{Audio: []byte{1}},
			tr:       &fakeTranscriber{err: transcribe.ErrUnrecognized},
			outcome:  message.NotTranscribed,
			response: "Error: Could not understand audio. Please speak more clearly and try again.",
		},
		{
			name:     "unknown phrasing",
			msg:      &message.Message{Text: "play some jazz"},
			outcome:  message.NotRecognized,
			response: "Command not recognized. Please try again using one of the example formats.",
		},
		{
			name:     "dispatch failure",
			msg:      &message.Message{Text: "delete my road trip playlist"},
			outcome:  message.Failed,
			response: "Error: Playlist 'road trip' not found",
			svcCalls: 1,
		},
		{
			name:     "audio success",
			msg:      &message.Message{Audio: []byte{1}, ContentType: "audio/wav"},
			tr:       &fakeTranscriber{text: "Create a playlist named Road Trip"},
			outcome:  message.Succeeded,
			response: "Success! Playlist 'road trip' created successfully! Check your account to see it.",
			svcCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := library()
			var opts []Option
			if tt.tr != nil {
				opts = append(opts, WithTranscriber(tt.tr))
			}
			p := NewProcessor(dispatch.New(svc), opts...)

			res, err := p.Handle(context.Background(), tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.response, res.ResponseText)
			assert.Equal(t, tt.response, Render(res))
			assert.Len(t, svc.Calls, tt.svcCalls)
			if tt.outcome == message.NotTranscribed || tt.outcome == message.NotRecognized {
				assert.Nil(t, res.Result)
			}
		})
	}
}

func TestHandle_AudioWithoutTranscriber(t *testing.T) {
	t.Parallel()

	p := NewProcessor(dispatch.New(library()))
	_, err := p.Handle(context.Background(), &message.Message{Audio: []byte{1}})
	assert.ErrorIs(t, err, ErrNoTranscriber)
}

func TestHandle_LanguageOverride(t *testing.T) {
	t.Parallel()

	tr := &fakeTranscriber{text: "delete my halloween playlist"}
	p := NewProcessor(dispatch.New(library()),
		WithTranscriber(tr),
		WithTranscribeOpts(transcribe.Opts{Language: "en", Prompt: "playlists"}))

	_, err := p.Handle(context.Background(), &message.Message{Audio: []byte{1}, Language: "fr"})
	require.NoError(t, err)
	assert.Equal(t, transcribe.Opts{Language: "fr", Prompt: "playlists"}, tr.opts)
}

func TestHandle_KeepsMessageID(t *testing.T) {
	t.Parallel()

	p := NewProcessor(dispatch.New(library()))
	res, err := p.Handle(context.Background(), &message.Message{ID: "abc", Text: "delete my halloween playlist"})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.MessageID)
}

// slowDispatcher fails the test if two dispatches overlap.
type slowDispatcher struct {
	active atomic.Int32
	t      *testing.T
}

func (d *slowDispatcher) Dispatch(context.Context, command.Command) dispatch.Result {
	if d.active.Add(1) != 1 {
		d.t.Error("concurrent dispatch")
	}
	time.Sleep(5 * time.Millisecond)
	d.active.Add(-1)
	return dispatch.Success("ok", "")
}

func TestHandle_SerializesTurns(t *testing.T) {
	t.Parallel()

	p := NewProcessor(&slowDispatcher{t: t})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Handle(context.Background(), &message.Message{Text: "create playlist mix"})
		}()
	}
	wg.Wait()
}

func TestLoop_Run(t *testing.T) {
	t.Parallel()

	svc := library()
	p := NewProcessor(dispatch.New(svc))
	input := strings.NewReader("create a playlist named Road Trip\n\nhello there\ndelete my halloween playlist\n")

	var out bytes.Buffer
	err := NewLoop(NewLineSource(input, "console"), p, &out).Run(context.Background())
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "=== Welcome to voxlist! ===")
	assert.Contains(t, got, "Recognized command: 'create a playlist named road trip'")
	assert.Contains(t, got, "Success! Playlist 'road trip' created successfully!")
	assert.Contains(t, got, "Error: Timeout: No speech detected. Please try again.")
	assert.Contains(t, got, "Command not recognized.")
	assert.Contains(t, got, "Success! Playlist 'halloween' has been removed from your library.")
	assert.Equal(t, []string{"p-hw"}, svc.DeleteCalls)
}

func TestLoop_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	// The reader never yields a line.
	src := &LineSource{source: "console", lines: make(chan string)}
	err := NewLoop(src, NewProcessor(dispatch.New(library())), &out).Run(ctx)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestLineSource_CloseStopsReader(t *testing.T) {
	t.Parallel()

	src := NewLineSource(strings.NewReader("one\ntwo\nthree\n"), "console")
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Lines already handed over may still arrive; the channel must close.
	for i := 0; ; i++ {
		_, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.Less(t, i, 3)
	}
}

func TestBanner_ListsEveryPhrasing(t *testing.T) {
	t.Parallel()

	b := Banner()
	for _, ex := range command.Examples() {
		assert.Contains(t, b, ex)
	}
}
