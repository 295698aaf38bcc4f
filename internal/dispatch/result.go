package dispatch

// Reason classifies a failed dispatch.
type Reason string

const (
	// PlaylistNotFound means no playlist in the user's collection has the
	// spoken name (case-insensitive, exact).
	PlaylistNotFound Reason = "playlist_not_found"

	// TrackNotFound means the track search returned no hit.
	TrackNotFound Reason = "track_not_found"

	// RemoteCallFailed means a playlist service call returned an error. The
	// result message carries the service's error text.
	RemoteCallFailed Reason = "remote_call_failed"

	// InvalidCommand means the command failed validation before any remote
	// call. Commands from the parser never produce it.
	InvalidCommand Reason = "invalid_command"
)

// Result is the outcome of one dispatch: either a success with an optional
// remote ID, or a failure with a reason. Results are plain values and are not
// modified after construction.
type Result struct {
	OK       bool   `json:"ok"`
	Reason   Reason `json:"reason,omitempty"`
	Message  string `json:"message"`
	RemoteID string `json:"remote_id,omitempty"`
}

// Success builds a successful Result. remoteID may be empty.
func Success(message, remoteID string) Result {
	return Result{OK: true, Message: message, RemoteID: remoteID}
}

// Failure builds a failed Result.
func Failure(reason Reason, message string) Result {
	return Result{Reason: reason, Message: message}
}

// outcome is the metric label for r.
func (r Result) outcome() string {
	if r.OK {
		return "ok"
	}
	return string(r.Reason)
}
