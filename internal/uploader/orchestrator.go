package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/logging"
)

// Orchestrator owns the pending selection and at most one upload attempt.
//
// Every input (user command, picker result, storage progress, storage
// result) is handled under a single mutex and runs to completion before the
// next one. The storage write itself runs on its own goroutine, so Upload
// returns as soon as the attempt is registered.
type Orchestrator struct {
	picker   Picker
	storage  Storage
	auth     Auth
	listener Listener
	logger   logging.Logger
	prefix   string
	newKey   func(prefix string) string
	now      func() time.Time

	mu        sync.Mutex
	state     State
	selection *Handle
	current   *Attempt
	last      *Attempt
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithListeners registers lifecycle listeners, notified in order.
func WithListeners(ls ...Listener) Option {
	return func(o *Orchestrator) { o.listener = Listeners(ls) }
}

// WithKeyPrefix sets the namespace for destination keys.
func WithKeyPrefix(prefix string) Option {
	return func(o *Orchestrator) { o.prefix = prefix }
}

// WithKeyFunc replaces the destination key generator.
func WithKeyFunc(fn func(prefix string) string) Option {
	return func(o *Orchestrator) { o.newKey = fn }
}

// New constructs an Orchestrator in the Idle state.
func New(picker Picker, storage Storage, auth Auth, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		picker:   picker,
		storage:  storage,
		auth:     auth,
		listener: Listeners(nil),
		logger:   logging.NewSlogLogger(slog.New(slog.DiscardHandler)),
		prefix:   DefaultKeyPrefix,
		newKey:   NewKey,
		now:      time.Now,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Selection returns the pending selection or ErrNoSelection.
func (o *Orchestrator) Selection() (Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selection == nil {
		return Handle{}, ErrNoSelection
	}
	return *o.selection, nil
}

// Current returns the active attempt, or the last finished one until it is
// acknowledged. It returns nil when there is neither.
func (o *Orchestrator) Current() *Attempt {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		return o.current
	}
	return o.last
}

// Select asks the picker for an image.
//
// A valid pick replaces the pending selection and moves to Selected. A
// cancelled pick changes nothing. A pick that cannot be read returns a
// *SelectionError, logged only, with state and selection untouched.
func (o *Orchestrator) Select(ctx context.Context) error {
	if o.State() == StateUploading {
		return ErrUploadInProgress
	}

	h, err := o.picker.Pick(ctx, MediaTypeImage)
	if err != nil {
		var se *SelectionError
		if !errors.As(err, &se) {
			se = &SelectionError{Err: err}
		}
		o.logger.Warn(ctx, "image selection failed", "path", se.Path, "error", se.Err)
		return se
	}
	if h == nil {
		o.logger.Debug(ctx, "image selection cancelled")
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateUploading {
		return ErrUploadInProgress
	}

	picked := *h
	o.selection = &picked
	o.last = nil
	o.state = StateSelected
	o.logger.Info(ctx, "image selected", "path", picked.Path, "size", picked.Size, "content_type", picked.ContentType)
	return nil
}

// Upload starts an attempt for the pending selection and returns without
// waiting for it.
//
// With no selection it is a silent no-op returning (nil, nil). While another
// attempt is running it returns ErrUploadInProgress. The write is detached
// from ctx cancellation: once started it runs to a terminal outcome.
func (o *Orchestrator) Upload(ctx context.Context) (*Attempt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateUploading {
		return nil, ErrUploadInProgress
	}
	if o.selection == nil {
		o.logger.Debug(ctx, "upload requested without selection")
		return nil, nil
	}

	a := newAttempt(o.newKey(o.prefix), *o.selection, o.now())
	o.current = a
	o.last = nil
	o.state = StateUploading

	o.logger.Info(ctx, "upload started", "attempt", a.id, "key", a.key, "path", a.handle.Path)
	o.listener.UploadStarted(ctx, a.Snapshot())

	go o.run(context.WithoutCancel(ctx), a)
	return a, nil
}

func (o *Orchestrator) run(ctx context.Context, a *Attempt) {
	err := o.storage.Put(ctx, a.key, a.handle, func(transferred, total int64) {
		o.progress(ctx, a, transferred, total)
	})
	o.finish(ctx, a, err)
}

func (o *Orchestrator) progress(ctx context.Context, a *Attempt, transferred, total int64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != a {
		return
	}
	if !a.update(transferred, total) {
		return
	}
	o.listener.UploadProgress(ctx, a.Snapshot())
}

func (o *Orchestrator) finish(ctx context.Context, a *Attempt, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != a {
		return
	}

	var ue *UploadError
	if err != nil {
		ue = &UploadError{Key: a.key, Err: err}
	}
	if !a.finish(ue, o.now()) {
		return
	}

	o.current = nil
	o.last = a

	if ue != nil {
		o.state = StateFailed
		o.logger.Error(ctx, "upload failed", "attempt", a.id, "key", a.key, "error", err)
		o.listener.UploadFailed(ctx, a.Snapshot(), ue)
		return
	}

	o.selection = nil
	o.state = StateSucceeded
	o.logger.Info(ctx, "upload succeeded", "attempt", a.id, "key", a.key)
	o.listener.UploadSucceeded(ctx, a.Snapshot())
}

// Acknowledge dismisses a terminal outcome. Succeeded returns to Idle;
// Failed returns to Selected because the selection is kept for a retry.
// Other states are left as they are. It returns the resulting state.
func (o *Orchestrator) Acknowledge() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateSucceeded:
		o.state = StateIdle
		o.last = nil
	case StateFailed:
		o.last = nil
		if o.selection != nil {
			o.state = StateSelected
		} else {
			o.state = StateIdle
		}
	}
	return o.state
}

// SignOut delegates to the auth collaborator. On success the pending
// selection is dropped unless an upload is still running.
func (o *Orchestrator) SignOut(ctx context.Context) error {
	if err := o.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateUploading {
		o.selection = nil
		o.last = nil
		o.state = StateIdle
	}
	o.logger.Info(ctx, "signed out")
	return nil
}
