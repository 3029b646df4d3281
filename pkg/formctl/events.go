package formctl

import (
	"context"
	"time"

	"github.com/goliatone/go-formstate/pkg/state"
)

// Submission is the payload of a saved notification.
type Submission struct {
	ID    string         `json:"id"`
	At    time.Time      `json:"at"`
	State state.Snapshot `json:"state"`
}

// Listener receives the controller's outbound notifications. Both are
// fire-and-forget; listeners may call back into the controller.
type Listener interface {
	Saved(ctx context.Context, submission Submission)
	Cancelled(ctx context.Context)
}

// ListenerFuncs adapts optional callbacks into a Listener.
type ListenerFuncs struct {
	OnSaved     func(ctx context.Context, submission Submission)
	OnCancelled func(ctx context.Context)
}

// Saved implements Listener.
func (l ListenerFuncs) Saved(ctx context.Context, submission Submission) {
	if l.OnSaved != nil {
		l.OnSaved(ctx, submission)
	}
}

// Cancelled implements Listener.
func (l ListenerFuncs) Cancelled(ctx context.Context) {
	if l.OnCancelled != nil {
		l.OnCancelled(ctx)
	}
}

type event struct {
	ctx        context.Context
	submission *Submission
}

func (e event) deliver(l Listener) {
	if e.submission != nil {
		l.Saved(e.ctx, *e.submission)
		return
	}
	l.Cancelled(e.ctx)
}
