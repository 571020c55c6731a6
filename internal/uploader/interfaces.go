package uploader

import "context"

// Picker asks the user for a file of the given media type.
// A nil handle with a nil error means the pick was cancelled.
type Picker interface {
	Pick(ctx context.Context, mediaType string) (*Handle, error)
}

// ProgressFunc receives cumulative byte counts for one write.
type ProgressFunc func(transferred, total int64)

// Storage writes the bytes behind a handle to key. Put blocks until the
// write reaches a terminal outcome and may call onProgress zero or more
// times before returning.
type Storage interface {
	Put(ctx context.Context, key string, h Handle, onProgress ProgressFunc) error
}

// Auth is the identity collaborator as seen by the orchestrator.
type Auth interface {
	SignOut(ctx context.Context) error
}

// Listener is notified about attempt lifecycle events.
//
// Calls are made synchronously with the orchestrator lock held, so
// implementations must not call back into the Orchestrator.
// UploadStarted shows the busy indicator; UploadSucceeded and UploadFailed
// dismiss it and are called exactly once per attempt.
type Listener interface {
	UploadStarted(ctx context.Context, s Snapshot)
	UploadProgress(ctx context.Context, s Snapshot)
	UploadSucceeded(ctx context.Context, s Snapshot)
	UploadFailed(ctx context.Context, s Snapshot, err *UploadError)
}

// Listeners fans events out to every listener in order.
type Listeners []Listener

func (ls Listeners) UploadStarted(ctx context.Context, s Snapshot) {
	for _, l := range ls {
		l.UploadStarted(ctx, s)
	}
}

func (ls Listeners) UploadProgress(ctx context.Context, s Snapshot) {
	for _, l := range ls {
		l.UploadProgress(ctx, s)
	}
}

func (ls Listeners) UploadSucceeded(ctx context.Context, s Snapshot) {
	for _, l := range ls {
		l.UploadSucceeded(ctx, s)
	}
}

func (ls Listeners) UploadFailed(ctx context.Context, s Snapshot, err *UploadError) {
	for _, l := range ls {
		l.UploadFailed(ctx, s, err)
	}
}
