// Package service holds the job and job note use cases: listing, status
// transitions and note lifecycle. It talks to the store through the
// repository interfaces and reports changes through an event.Notifier.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/jobdesk/internal/event"
	"github.com/garnizeh/jobdesk/pkg/jobquery"
	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

// Relation names accepted by LoadRelations.
const (
	RelationNotes    = "notes"
	RelationContacts = "contacts"
)

type JobServiceConfig struct {
	PerPage        int
	MatchCreatedAt bool
}

type JobService struct {
	repo     repository.Repository
	notifier event.Notifier
	cfg      JobServiceConfig
	logger   *slog.Logger
}

func NewJobService(repo repository.Repository, notifier event.Notifier, cfg JobServiceConfig, logger *slog.Logger) *JobService {
	if notifier == nil {
		notifier = event.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = jobquery.DefaultPerPage
	}
	return &JobService{repo: repo, notifier: notifier, cfg: cfg, logger: logger}
}

type ListJobsRequest struct {
	BusinessID int64
	Query      string
	Status     *models.JobStatus
	Sort       string
	Direction  string
	Page       int
}

type JobPage struct {
	Jobs []models.Job
	Page jobquery.Page
}

// ListJobs returns one page of the tenant's live jobs.
func (s *JobService) ListJobs(ctx context.Context, req ListJobsRequest) (*JobPage, error) {
	plan, err := jobquery.Build(jobquery.Params{
		BusinessID:     req.BusinessID,
		Query:          req.Query,
		Status:         req.Status,
		Sort:           req.Sort,
		Direction:      req.Direction,
		Page:           req.Page,
		PerPage:        s.cfg.PerPage,
		MatchCreatedAt: s.cfg.MatchCreatedAt,
	})
	if err != nil {
		return nil, err
	}

	jobs, total, err := s.repo.ListJobs(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return &JobPage{Jobs: jobs, Page: jobquery.NewPage(total, plan.Page, plan.Limit)}, nil
}

// FindJob resolves a live job by id across tenants. Callers authorize.
func (s *JobService) FindJob(ctx context.Context, id int64) (*models.Job, error) {
	return s.repo.FindJob(ctx, id, repository.ExcludeDeleted)
}

// GetJob resolves a live job inside one tenant.
func (s *JobService) GetJob(ctx context.Context, id, businessID int64) (*models.Job, error) {
	return s.repo.FindJobForBusiness(ctx, id, businessID)
}

// LoadRelations fills the named relations of job in place. Unknown names are
// ignored.
func (s *JobService) LoadRelations(ctx context.Context, job *models.Job, names ...string) error {
	for _, name := range names {
		switch name {
		case RelationNotes:
			notes, err := s.repo.ListJobNotes(ctx, job.ID, repository.ExcludeDeleted)
			if err != nil {
				return fmt.Errorf("load notes: %w", err)
			}
			job.Notes = notes
		case RelationContacts:
			contacts, err := s.repo.ListJobContacts(ctx, job.ID, repository.ExcludeDeleted)
			if err != nil {
				return fmt.Errorf("load contacts: %w", err)
			}
			job.Contacts = contacts
		}
	}
	return nil
}

type StatusChange struct {
	Job    *models.Job
	Status models.JobStatus
}

// UpdateStatus moves a job to a new status. Requesting the current status
// writes nothing and emits nothing. A real change emits exactly one
// JobStatusChanged event after the write.
func (s *JobService) UpdateStatus(ctx context.Context, req StatusChange) (*models.Job, error) {
	if req.Job == nil {
		return nil, fmt.Errorf("update status: job is nil")
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("update status: %w", models.ErrInvalidJobStatus)
	}
	if req.Job.Status == req.Status {
		return req.Job, nil
	}

	status := req.Status
	updated, err := s.repo.UpdateJob(ctx, req.Job, repository.JobAttributes{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if updated == nil {
		return req.Job, nil
	}

	s.notifier.JobStatusChanged(ctx, event.JobStatusChanged{
		Job:            *updated,
		PreviousStatus: req.Job.Status,
		Request:        event.FromContext(ctx),
	})
	return updated, nil
}

// ListAudits returns the audit trail of a job, oldest first.
func (s *JobService) ListAudits(ctx context.Context, job *models.Job) ([]models.AuditRecord, error) {
	audits, err := s.repo.ListAudits(ctx, models.AuditableJob, job.ID)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	return audits, nil
}
