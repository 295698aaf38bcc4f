package turn

import (
	"errors"
	"fmt"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/message"
	"github.com/nadzzz/voxlist/internal/transcribe"
)

// Render returns the user-facing line for res.
func Render(res *message.TurnResult) string {
	if res == nil {
		return ""
	}
	if res.ResponseText != "" {
		return res.ResponseText
	}
	return render(res, nil)
}

func render(res *message.TurnResult, err error) string {
	switch res.Outcome {
	case message.NotTranscribed:
		return "Error: " + transcriptionProblem(err)
	case message.NotRecognized:
		return "Command not recognized. Please try again using one of the example formats."
	case message.Succeeded:
		return success(res.Command)
	case message.Failed:
		if res.Result != nil {
			return "Error: " + res.Result.Message
		}
		return "Error: the command failed."
	}
	return "Unknown command. Please try again."
}

func transcriptionProblem(err error) string {
	if errors.Is(err, transcribe.ErrNoSpeech) || errors.Is(err, transcribe.ErrTimeout) {
		return "Timeout: No speech detected. Please try again."
	}
	return "Could not understand audio. Please speak more clearly and try again."
}

func success(cmd *command.Command) string {
	if cmd == nil {
		return "Success!"
	}
	switch cmd.Action {
	case command.CreatePlaylist:
		return fmt.Sprintf("Success! Playlist '%s' created successfully! Check your account to see it.", cmd.Playlist)
	case command.AddTrack:
		return fmt.Sprintf("Success! Added '%s' to playlist '%s'. Check your playlist to listen to it!", cmd.TrackName(), cmd.Playlist)
	case command.RemoveTrack:
		return fmt.Sprintf("Success! Removed '%s' from playlist '%s'. The song has been removed from your playlist.", cmd.TrackName(), cmd.Playlist)
	case command.DeletePlaylist:
		return fmt.Sprintf("Success! Playlist '%s' has been removed from your library.", cmd.Playlist)
	}
	return "Success!"
}
