package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/jobdesk/pkg/jobquery"
	"github.com/garnizeh/jobdesk/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrNotFound is returned when a lookup does not resolve, including lookups
// scoped to another tenant.
var ErrNotFound = errors.New("record not found")

// PersistenceError wraps a failed write (constraint violation, I/O). It is
// never swallowed by the store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence: " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DeletedMode decides whether soft-deleted rows are visible to a read.
type DeletedMode int

const (
	ExcludeDeleted DeletedMode = iota
	IncludeDeleted
)

// JobAttributes lists the job fields an update may change. Nil fields are
// left untouched.
type JobAttributes struct {
	Label       *string
	Description *string
	Status      *models.JobStatus
}

// Apply returns a copy of j with the supplied attributes set.
func (a JobAttributes) Apply(j models.Job) models.Job {
	if a.Label != nil {
		j.Label = *a.Label
	}
	if a.Description != nil {
		j.Description = *a.Description
	}
	if a.Status != nil {
		j.Status = *a.Status
	}
	return j
}

type JobNoteAttributes struct {
	Note *string
}

func (a JobNoteAttributes) Apply(n models.JobNote) models.JobNote {
	if a.Note != nil {
		n.Note = *a.Note
	}
	return n
}

type BusinessRepo interface {
	CreateBusiness(ctx context.Context, b *models.Business) (*models.Business, error)
	FindBusiness(ctx context.Context, id int64, mode DeletedMode) (*models.Business, error)
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	FindUser(ctx context.Context, id int64, mode DeletedMode) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string, mode DeletedMode) (*models.User, error)
}

// JobRepo updates return (nil, nil) when the attributes do not change the
// stored job; nothing is written in that case.
type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (*models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job, attrs JobAttributes) (*models.Job, error)
	FindJob(ctx context.Context, id int64, mode DeletedMode) (*models.Job, error)
	FindJobForBusiness(ctx context.Context, id, businessID int64) (*models.Job, error)
	ListJobs(ctx context.Context, plan jobquery.Plan) ([]models.Job, int64, error)
}

type JobContactRepo interface {
	CreateJobContact(ctx context.Context, c *models.JobContact) (*models.JobContact, error)
	ListJobContacts(ctx context.Context, jobID int64, mode DeletedMode) ([]models.JobContact, error)
}

type JobNoteRepo interface {
	CreateJobNote(ctx context.Context, n *models.JobNote) (*models.JobNote, error)
	UpdateJobNote(ctx context.Context, n *models.JobNote, attrs JobNoteAttributes) (*models.JobNote, error)
	FindJobNote(ctx context.Context, id int64, mode DeletedMode) (*models.JobNote, error)
	ListJobNotes(ctx context.Context, jobID int64, mode DeletedMode) ([]models.JobNote, error)
}

type AuditRepo interface {
	ListAudits(ctx context.Context, auditable string, auditableID int64) ([]models.AuditRecord, error)
}

// Repository groups every store contract. The sqlite implementation satisfies
// all of them with one value.
type Repository interface {
	BusinessRepo
	UserRepo
	JobRepo
	JobContactRepo
	JobNoteRepo
	AuditRepo
}
