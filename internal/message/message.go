// Package message defines the data types flowing between transports and the
// turn processor.
package message

import (
	"time"

	"github.com/nadzzz/voxlist/internal/command"
	"github.com/nadzzz/voxlist/internal/dispatch"
)

// Outcome classifies how far a turn got.
type Outcome string

const (
	// NotTranscribed means speech-to-text produced no usable text; nothing
	// was parsed.
	NotTranscribed Outcome = "not_transcribed"

	// NotRecognized means the text matched no command phrasing; nothing was
	// dispatched.
	NotRecognized Outcome = "not_recognized"

	// Succeeded means the command was dispatched and succeeded.
	Succeeded Outcome = "succeeded"

	// Failed means the command was dispatched and the dispatcher reported a
	// failure.
	Failed Outcome = "failed"
)

// Message is one utterance arriving from any transport.
type Message struct {
	// ID is a unique identifier for this message (UUID). Assigned by the
	// processor when empty.
	ID string `json:"id"`

	// Source identifies the sender (e.g., "kitchen-speaker", "console").
	Source string `json:"source"`

	// Audio is the raw audio payload. Nil if the message is text-only.
	Audio []byte `json:"audio,omitempty"`

	// ContentType is the MIME type of the audio (e.g., "audio/wav").
	ContentType string `json:"content_type,omitempty"`

	// Text is already transcribed input; it bypasses speech-to-text.
	Text string `json:"text,omitempty"`

	// Language is an optional ISO-639-1 hint for speech-to-text.
	Language string `json:"language,omitempty"`

	// Timestamp is when the message was received.
	Timestamp time.Time `json:"timestamp"`
}

// HasAudio returns true if the message contains an audio payload.
func (m *Message) HasAudio() bool {
	return len(m.Audio) > 0
}

// TurnResult is the outcome of one utterance through the pipeline.
type TurnResult struct {
	// MessageID is the original message ID.
	MessageID string `json:"message_id"`

	// Transcript is the normalised text that was parsed.
	Transcript string `json:"transcript,omitempty"`

	// Outcome is the turn classification.
	Outcome Outcome `json:"outcome"`

	// Command is the parsed command, nil unless parsing succeeded.
	Command *command.Command `json:"command,omitempty"`

	// Result is the dispatcher's result, nil unless a command was dispatched.
	Result *dispatch.Result `json:"result,omitempty"`

	// ResponseText is the user-facing line for this turn.
	ResponseText string `json:"response_text"`

	// Error describes why the turn produced no text.
	Error string `json:"error,omitempty"`
}
