package uploader

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Attempt is one transfer of a selected file to the storage collaborator.
// Its mutable fields change only inside orchestrator callbacks.
type Attempt struct {
	id        string
	key       string
	handle    Handle
	startedAt time.Time
	done      chan struct{}

	mu          sync.Mutex
	transferred int64
	total       int64
	percent     int
	reported    bool
	outcome     Outcome
	err         *UploadError
	finishedAt  time.Time
}

func newAttempt(key string, h Handle, now time.Time) *Attempt {
	return &Attempt{
		id:        uuid.NewString(),
		key:       key,
		handle:    h,
		startedAt: now,
		total:     h.Size,
		outcome:   OutcomePending,
		done:      make(chan struct{}),
	}
}

// ID returns the attempt identifier.
func (a *Attempt) ID() string { return a.id }

// Key returns the destination key.
func (a *Attempt) Key() string { return a.key }

// Done is closed once the attempt reaches a terminal outcome.
func (a *Attempt) Done() <-chan struct{} { return a.done }

// Err returns the failure of a finished attempt, or nil.
func (a *Attempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err == nil {
		return nil
	}
	return a.err
}

// Snapshot returns a copy of the attempt's current progress and outcome.
func (a *Attempt) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *Attempt) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:          a.id,
		Key:         a.key,
		Handle:      a.handle,
		Transferred: a.transferred,
		Total:       a.total,
		Percent:     a.percent,
		Outcome:     a.outcome,
		StartedAt:   a.startedAt,
		FinishedAt:  a.finishedAt,
	}
	if a.err != nil {
		s.Reason = a.err.Reason()
	}
	return s
}

// update applies a progress event and reports whether listeners should
// hear about it. Events that would lower the percentage are dropped.
func (a *Attempt) update(transferred, total int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if total < 0 {
		total = 0
	}
	if transferred < 0 {
		transferred = 0
	}
	if transferred > total {
		transferred = total
	}

	p := Percent(transferred, total)
	if a.reported && p < a.percent {
		return false
	}

	changed := !a.reported || p != a.percent
	a.transferred = transferred
	a.total = total
	a.percent = p
	a.reported = true
	return changed
}

func (a *Attempt) finish(err *UploadError, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.outcome != OutcomePending {
		return false
	}
	a.finishedAt = now
	if err != nil {
		a.outcome = OutcomeFailed
		a.err = err
	} else {
		a.outcome = OutcomeSucceeded
	}
	close(a.done)
	return true
}

// Percent returns floor(100*transferred/total), clamped into [0, 100].
// A zero total yields 0.
func Percent(transferred, total int64) int {
	if total <= 0 || transferred <= 0 {
		return 0
	}
	if transferred >= total {
		return 100
	}
	return int(transferred * 100 / total)
}
