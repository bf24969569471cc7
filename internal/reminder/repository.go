package reminder

import "context"

// Store is the persisted record store facade. Update runs mutate inside a
// single load-merge-save critical section so concurrent edits to different
// reminders never clobber each other.
type Store interface {
	Load(ctx context.Context) ([]Reminder, error)
	Update(ctx context.Context, mutate func([]Reminder) ([]Reminder, error)) error
}

// Gateway wraps the notification platform.
type Gateway interface {
	// EnsurePermission checks (and, if undecided, requests) notification
	// permission. Returns ErrPermissionDenied when the user declined.
	EnsurePermission(ctx context.Context) error
	// Schedule realizes one trigger and returns the platform handle for it.
	Schedule(ctx context.Context, trig Trigger, payload Payload) (string, error)
	// Cancel retracts one handle. Idempotent: unknown or already-fired
	// handles are not an error.
	Cancel(ctx context.Context, handle string) error
	// CancelMany cancels each handle independently, best-effort.
	CancelMany(ctx context.Context, handles []string) BatchResult
}

// CancelOutcome is the per-handle result of a batch cancellation.
type CancelOutcome struct {
	Handle string
	Err    error
}

type BatchResult []CancelOutcome

func (r BatchResult) Failed() BatchResult {
	var failed BatchResult
	for _, out := range r {
		if out.Err != nil {
			failed = append(failed, out)
		}
	}
	return failed
}
