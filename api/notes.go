package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/garnizeh/jobdesk/internal/policy"
	"github.com/garnizeh/jobdesk/internal/resource"
	"github.com/garnizeh/jobdesk/pkg/models"
)

type NoteService interface {
	CreateNote(ctx context.Context, job *models.Job, text string, author *models.User) (*models.JobNote, error)
	FindNote(ctx context.Context, id int64) (*models.JobNote, error)
	UpdateNote(ctx context.Context, note *models.JobNote, text string) (*models.JobNote, error)
}

type NotesHandler struct {
	jobs  JobService
	notes NoteService
}

func NewNotesHandler(jobs JobService, notes NoteService) *NotesHandler {
	return &NotesHandler{jobs: jobs, notes: notes}
}

func readNote(r *http.Request) (string, error) {
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	req.normalize()
	if err := validateRequest(req); err != nil {
		return "", err
	}
	return req.Note, nil
}

// Store handles POST /jobs/{job}/notes. The job is looked up inside the
// caller's business, so foreign jobs answer 404.
func (h *NotesHandler) Store(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "job")
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.jobs.GetJob(r.Context(), id, user.BusinessID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	text, err := readNote(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	note, err := h.notes.CreateNote(r.Context(), job, text, user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resource.Item[resource.JobNote]{Data: resource.NewJobNote(note)}, http.StatusCreated)
}

// Update handles PUT /jobs/{job}/notes/{jobNote}.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jobID, err := pathID(r, "job")
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.jobs.FindJob(r.Context(), jobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	noteID, err := pathID(r, "jobNote")
	if err != nil {
		writeError(w, r, err)
		return
	}
	note, err := h.notes.FindNote(r.Context(), noteID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	text, err := readNote(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := policy.Authorize(policy.JobNoteUpdate, policy.Subject{User: user, Job: job, Note: note}); err != nil {
		writeError(w, r, fmt.Errorf("note %d on job %d: %w", note.ID, job.ID, err))
		return
	}

	updated, err := h.notes.UpdateNote(r.Context(), note, text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resource.Item[resource.JobNote]{Data: resource.NewJobNote(updated)}, http.StatusOK)
}
