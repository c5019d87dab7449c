package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/jobdesk/internal/event"
	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

type JobNoteService struct {
	notes    repository.JobNoteRepo
	notifier event.Notifier
	logger   *slog.Logger
}

func NewJobNoteService(notes repository.JobNoteRepo, notifier event.Notifier, logger *slog.Logger) *JobNoteService {
	if notifier == nil {
		notifier = event.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JobNoteService{notes: notes, notifier: notifier, logger: logger}
}

// CreateNote attaches a note written by author to job and emits
// JobNoteCreated.
func (s *JobNoteService) CreateNote(ctx context.Context, job *models.Job, text string, author *models.User) (*models.JobNote, error) {
	if job == nil || author == nil {
		return nil, fmt.Errorf("create note: job and author are required")
	}

	note, err := s.notes.CreateJobNote(ctx, &models.JobNote{
		JobID:           job.ID,
		CreatedByUserID: author.ID,
		Note:            text,
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	if note.Author == nil {
		a := *author
		note.Author = &a
	}

	s.notifier.JobNoteCreated(ctx, event.JobNoteCreated{Note: *note, Job: *job, Request: event.FromContext(ctx)})
	return note, nil
}

func (s *JobNoteService) FindNote(ctx context.Context, id int64) (*models.JobNote, error) {
	return s.notes.FindJobNote(ctx, id, repository.ExcludeDeleted)
}

// UpdateNote replaces the note text. An unchanged text returns note as is
// without an event.
func (s *JobNoteService) UpdateNote(ctx context.Context, note *models.JobNote, text string) (*models.JobNote, error) {
	if note == nil {
		return nil, fmt.Errorf("update note: note is nil")
	}

	updated, err := s.notes.UpdateJobNote(ctx, note, repository.JobNoteAttributes{Note: &text})
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if updated == nil {
		s.logger.DebugContext(ctx, "note unchanged", slog.Int64("job_note_id", note.ID))
		return note, nil
	}

	s.notifier.JobNoteUpdated(ctx, event.JobNoteUpdated{Note: *updated, Request: event.FromContext(ctx)})
	return updated, nil
}
