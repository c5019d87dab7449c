package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/jobdesk/internal/policy"
	"github.com/garnizeh/jobdesk/internal/reqctx"
	"github.com/garnizeh/jobdesk/internal/resource"
	"github.com/garnizeh/jobdesk/internal/service"
	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

// JobService is the job use case surface the handlers depend on.
type JobService interface {
	ListJobs(ctx context.Context, req service.ListJobsRequest) (*service.JobPage, error)
	FindJob(ctx context.Context, id int64) (*models.Job, error)
	GetJob(ctx context.Context, id, businessID int64) (*models.Job, error)
	LoadRelations(ctx context.Context, job *models.Job, names ...string) error
	UpdateStatus(ctx context.Context, req service.StatusChange) (*models.Job, error)
	ListAudits(ctx context.Context, job *models.Job) ([]models.AuditRecord, error)
}

type JobsHandler struct {
	jobs JobService
}

func NewJobsHandler(jobs JobService) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// currentUser returns the user stored by the auth middleware.
func currentUser(r *http.Request) (*models.User, error) {
	u, ok := reqctx.User(r.Context())
	if !ok {
		return nil, errUnauthenticated
	}
	return u, nil
}

// pathID parses a numeric route variable. A malformed id is reported as a
// missing record.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s %q: %w", name, mux.Vars(r)[name], repository.ErrNotFound)
	}
	return id, nil
}

// requestURL rebuilds the absolute URL of r for pagination links.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	if u.Host == "" {
		u.Host = r.Host
	}
	return &u
}

// bindJob resolves the {job} route variable across tenants; the caller
// authorizes.
func (h *JobsHandler) bindJob(r *http.Request) (*models.Job, error) {
	id, err := pathID(r, "job")
	if err != nil {
		return nil, err
	}
	return h.jobs.FindJob(r.Context(), id)
}

// List handles GET /jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	req, err := newJobListRequest(q).toServiceRequest(user.BusinessID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.jobs.ListJobs(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	with := resource.ParseWith(q.Get("with"))
	data := make([]resource.Job, 0, len(page.Jobs))
	for i := range page.Jobs {
		job := &page.Jobs[i]
		if err := h.jobs.LoadRelations(r.Context(), job, with.Names()...); err != nil {
			writeError(w, r, err)
			return
		}
		data = append(data, resource.NewJob(job, with))
	}

	writeJSON(w, resource.NewCollection(data, page.Page, requestURL(r)), http.StatusOK)
}

// Show handles GET /jobs/{job}.
func (h *JobsHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.bindJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := policy.Authorize(policy.JobView, policy.Subject{User: user, Job: job}); err != nil {
		writeError(w, r, err)
		return
	}

	with := resource.ParseWith(r.URL.Query().Get("with"))
	if err := h.jobs.LoadRelations(r.Context(), job, with.Names()...); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resource.Item[resource.Job]{Data: resource.NewJob(job, with)}, http.StatusOK)
}

// UpdateStatus handles PATCH /jobs/{job}/status.
func (h *JobsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.bindJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := policy.Authorize(policy.JobUpdate, policy.Subject{User: user, Job: job}); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.jobs.UpdateStatus(r.Context(), service.StatusChange{Job: job, Status: req.status()})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, resource.Item[resource.Job]{Data: resource.NewJob(updated, nil)}, http.StatusOK)
}

// Destroy handles DELETE /jobs/{job}. Deletion is authorized but not
// supported.
func (h *JobsHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.bindJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := policy.Authorize(policy.JobDelete, policy.Subject{User: user, Job: job}); err != nil {
		writeError(w, r, err)
		return
	}
	writeError(w, r, errNotImplemented)
}

// Audits handles GET /jobs/{job}/audits.
func (h *JobsHandler) Audits(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	job, err := h.bindJob(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := policy.Authorize(policy.JobView, policy.Subject{User: user, Job: job}); err != nil {
		writeError(w, r, err)
		return
	}

	audits, err := h.jobs.ListAudits(r.Context(), job)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := make([]resource.Audit, 0, len(audits))
	for i := range audits {
		data = append(data, resource.NewAudit(&audits[i]))
	}
	writeJSON(w, resource.Item[[]resource.Audit]{Data: data}, http.StatusOK)
}
