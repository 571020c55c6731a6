// Package uploader coordinates picking one image and uploading it.
//
// # Lifecycle
//
//	Idle ──Select──▶ Selected ──Upload──▶ Uploading ──▶ Succeeded ──Acknowledge──▶ Idle
//	                     ▲                       └────▶ Failed ────Acknowledge──▶ Selected
//	                     └───────────── Upload (retry, same selection) ◀──┘
//
// The Orchestrator owns the pending selection and at most one Attempt. It
// talks to three collaborators supplied at construction: a Picker (file
// chooser), a Storage (object store writer) and an Auth (sign-out).
// Lifecycle events are delivered to Listeners: a console renderer and the
// upload journal in the CLI.
//
// # Errors
//
//   - *SelectionError: the picked file is unreadable; logged, no state change.
//   - *UploadError: the store rejected the write; state becomes Failed and the
//     selection is kept for an explicit retry. Never retried automatically.
//   - Upload with no selection is a silent no-op.
//   - ErrUploadInProgress: Select or Upload while an attempt is running.
package uploader
