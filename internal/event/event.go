// Package event delivers domain notifications synchronously to in-process
// listeners. Delivery is fire-and-forget: listeners cannot fail the write
// that triggered them.
package event

import (
	"context"

	"github.com/garnizeh/jobdesk/internal/reqctx"
	"github.com/garnizeh/jobdesk/pkg/models"
)

const (
	NameJobStatusChanged = "job_status_changed"
	NameJobNoteCreated   = "job_note_created"
	NameJobNoteUpdated   = "job_note_updated"
)

// RequestContext identifies who triggered an event.
type RequestContext struct {
	UserID     int64
	BusinessID int64
	RequestID  string
}

// FromContext builds a RequestContext from the request values in ctx.
func FromContext(ctx context.Context) RequestContext {
	rc := RequestContext{RequestID: reqctx.RequestID(ctx)}
	if u, ok := reqctx.User(ctx); ok {
		rc.UserID = u.ID
		rc.BusinessID = u.BusinessID
	}
	return rc
}

type JobStatusChanged struct {
	Job            models.Job
	PreviousStatus models.JobStatus
	Request        RequestContext
}

type JobNoteCreated struct {
	Note    models.JobNote
	Job     models.Job
	Request RequestContext
}

type JobNoteUpdated struct {
	Note    models.JobNote
	Request RequestContext
}

// Notifier receives domain events after the corresponding write committed.
type Notifier interface {
	JobStatusChanged(ctx context.Context, e JobStatusChanged)
	JobNoteCreated(ctx context.Context, e JobNoteCreated)
	JobNoteUpdated(ctx context.Context, e JobNoteUpdated)
}

// Nop discards every event.
type Nop struct{}

func (Nop) JobStatusChanged(context.Context, JobStatusChanged) {}
func (Nop) JobNoteCreated(context.Context, JobNoteCreated) {}
func (Nop) JobNoteUpdated(context.Context, JobNoteUpdated) {}

// Multi fans each event out to every notifier in order.
type Multi []Notifier

func (m Multi) JobStatusChanged(ctx context.Context, e JobStatusChanged) {
	for _, n := range m {
		n.JobStatusChanged(ctx, e)
	}
}

func (m Multi) JobNoteCreated(ctx context.Context, e JobNoteCreated) {
	for _, n := range m {
		n.JobNoteCreated(ctx, e)
	}
}

func (m Multi) JobNoteUpdated(ctx context.Context, e JobNoteUpdated) {
	for _, n := range m {
		n.JobNoteUpdated(ctx, e)
	}
}
