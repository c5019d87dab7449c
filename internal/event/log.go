package event

import (
	"context"
	"log/slog"
)

// LogNotifier writes one structured log line per event.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func requestAttrs(rc RequestContext) slog.Attr {
	return slog.Group("request",
		slog.Int64("user_id", rc.UserID),
		slog.Int64("business_id", rc.BusinessID),
		slog.String("request_id", rc.RequestID),
	)
}

func (n *LogNotifier) JobStatusChanged(ctx context.Context, e JobStatusChanged) {
	n.logger.LogAttrs(ctx, slog.LevelInfo, NameJobStatusChanged,
		slog.Int64("job_id", e.Job.ID),
		slog.String("from", e.PreviousStatus.String()),
		slog.String("to", e.Job.Status.String()),
		requestAttrs(e.Request),
	)
}

func (n *LogNotifier) JobNoteCreated(ctx context.Context, e JobNoteCreated) {
	n.logger.LogAttrs(ctx, slog.LevelInfo, NameJobNoteCreated,
		slog.Int64("job_id", e.Job.ID),
		slog.Int64("job_note_id", e.Note.ID),
		requestAttrs(e.Request),
	)
}

func (n *LogNotifier) JobNoteUpdated(ctx context.Context, e JobNoteUpdated) {
	n.logger.LogAttrs(ctx, slog.LevelInfo, NameJobNoteUpdated,
		slog.Int64("job_id", e.Note.JobID),
		slog.Int64("job_note_id", e.Note.ID),
		requestAttrs(e.Request),
	)
}
