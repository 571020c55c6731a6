package uploader

import "time"

// MediaTypeImage is the media type pattern requested from the Picker.
const MediaTypeImage = "image/*"

// State is the orchestrator lifecycle state.
type State int

const (
	// StateIdle means there is no pending selection.
	StateIdle State = iota
	// StateSelected means a file is chosen but not uploading.
	StateSelected
	// StateUploading means an attempt is in flight.
	StateUploading
	// StateSucceeded is terminal until acknowledged.
	StateSucceeded
	// StateFailed is terminal until acknowledged or retried.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateUploading:
		return "uploading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handle references a locally accessible file chosen by the user.
type Handle struct {
	// Path is the absolute path to the file.
	Path string
	// Name is the base name shown to the user.
	Name string
	// Size is the byte count observed at pick time.
	Size int64
	// ContentType is the sniffed media type, e.g. "image/png".
	ContentType string
}

// Outcome is the terminal result of an attempt.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Snapshot is a point-in-time copy of an Attempt handed to listeners.
type Snapshot struct {
	ID          string
	Key         string
	Handle      Handle
	Transferred int64
	Total       int64
	Percent     int
	Outcome     Outcome
	Reason      string
	StartedAt   time.Time
	FinishedAt  time.Time
}
