package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/jobdesk/pkg/jobquery"
	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

var _ repository.Repository = (*Store)(nil)

// Store is an in-memory repository.Repository for handler and service tests.
// It keeps the dirty-check contract of the sqlite store but does not evaluate
// query plans beyond tenant, limit and offset.
type Store struct {
	mu sync.Mutex

	Businesses map[int64]*models.Business
	Users      map[int64]*models.User
	Jobs       map[int64]*models.Job
	Contacts   map[int64]*models.JobContact
	Notes      map[int64]*models.JobNote
	Audits     []models.AuditRecord

	// Err, when set, is returned by every write.
	Err error
	// LastPlan is the most recent plan passed to ListJobs.
	LastPlan jobquery.Plan

	Writes int
	nextID int64
}

func New() *Store {
	return &Store{
		Businesses: map[int64]*models.Business{},
		Users:      map[int64]*models.User{},
		Jobs:       map[int64]*models.Job{},
		Contacts:   map[int64]*models.JobContact{},
		Notes:      map[int64]*models.JobNote{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func visible(deletedAt *time.Time, mode repository.DeletedMode) bool {
	return deletedAt == nil || mode == repository.IncludeDeleted
}

func (s *Store) CreateBusiness(ctx context.Context, b *models.Business) (*models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c := *b
	c.ID = s.id()
	s.Businesses[c.ID] = &c
	s.Writes++
	out := c
	return &out, nil
}

func (s *Store) FindBusiness(ctx context.Context, id int64, mode repository.DeletedMode) (*models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Businesses[id]
	if !ok || !visible(b.DeletedAt, mode) {
		return nil, repository.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c := *u
	c.ID = s.id()
	s.Users[c.ID] = &c
	s.Writes++
	out := c
	return &out, nil
}

func (s *Store) FindUser(ctx context.Context, id int64, mode repository.DeletedMode) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[id]
	if !ok || !visible(u.DeletedAt, mode) {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string, mode repository.DeletedMode) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Email == email && visible(u.DeletedAt, mode) {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c := *j
	c.ID = s.id()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	s.Jobs[c.ID] = &c
	s.Writes++
	out := c
	return &out, nil
}

func (s *Store) UpdateJob(ctx context.Context, j *models.Job, attrs repository.JobAttributes) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.Jobs[j.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := attrs.Apply(*stored)
	if models.DiffJob(*stored, next).Empty() {
		return nil, nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	next.UpdatedAt = time.Now().UTC()
	s.Jobs[j.ID] = &next
	s.Writes++
	out := next
	return &out, nil
}

func (s *Store) FindJob(ctx context.Context, id int64, mode repository.DeletedMode) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.Jobs[id]
	if !ok || !visible(j.DeletedAt, mode) {
		return nil, repository.ErrNotFound
	}
	out := *j
	return &out, nil
}

func (s *Store) FindJobForBusiness(ctx context.Context, id, businessID int64) (*models.Job, error) {
	j, err := s.FindJob(ctx, id, repository.ExcludeDeleted)
	if err != nil {
		return nil, err
	}
	if j.BusinessID != businessID {
		return nil, repository.ErrNotFound
	}
	return j, nil
}

func (s *Store) ListJobs(ctx context.Context, plan jobquery.Plan) ([]models.Job, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastPlan = plan

	var businessID int64
	if len(plan.Args) > 0 {
		businessID, _ = plan.Args[0].(int64)
	}

	var all []models.Job
	for _, j := range s.Jobs {
		if j.BusinessID == businessID && j.DeletedAt == nil {
			all = append(all, *j)
		}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].ID < all[b].ID })

	total := int64(len(all))
	if plan.Offset >= len(all) {
		return []models.Job{}, total, nil
	}
	end := len(all)
	if plan.Limit > 0 && plan.Offset+plan.Limit < end {
		end = plan.Offset + plan.Limit
	}
	return all[plan.Offset:end], total, nil
}

func (s *Store) CreateJobContact(ctx context.Context, c *models.JobContact) (*models.JobContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	cp := *c
	cp.ID = s.id()
	s.Contacts[cp.ID] = &cp
	s.Writes++
	out := cp
	return &out, nil
}

func (s *Store) ListJobContacts(ctx context.Context, jobID int64, mode repository.DeletedMode) ([]models.JobContact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.JobContact{}
	for _, c := range s.Contacts {
		if c.JobID == jobID && visible(c.DeletedAt, mode) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *Store) CreateJobNote(ctx context.Context, n *models.JobNote) (*models.JobNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c := *n
	c.ID = s.id()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	s.Notes[c.ID] = &c
	s.Writes++
	return s.withAuthor(c), nil
}

func (s *Store) UpdateJobNote(ctx context.Context, n *models.JobNote, attrs repository.JobNoteAttributes) (*models.JobNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.Notes[n.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := attrs.Apply(*stored)
	if models.DiffJobNote(*stored, next).Empty() {
		return nil, nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	next.UpdatedAt = time.Now().UTC()
	s.Notes[n.ID] = &next
	s.Writes++
	return s.withAuthor(next), nil
}

func (s *Store) FindJobNote(ctx context.Context, id int64, mode repository.DeletedMode) (*models.JobNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.Notes[id]
	if !ok || !visible(n.DeletedAt, mode) {
		return nil, repository.ErrNotFound
	}
	return s.withAuthor(*n), nil
}

func (s *Store) ListJobNotes(ctx context.Context, jobID int64, mode repository.DeletedMode) ([]models.JobNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.JobNote{}
	for _, n := range s.Notes {
		if n.JobID == jobID && visible(n.DeletedAt, mode) {
			out = append(out, *s.withAuthor(*n))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (s *Store) ListAudits(ctx context.Context, auditable string, auditableID int64) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.AuditRecord{}
	for _, a := range s.Audits {
		if a.Auditable == auditable && a.AuditableID == auditableID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) withAuthor(n models.JobNote) *models.JobNote {
	if u, ok := s.Users[n.CreatedByUserID]; ok {
		author := *u
		n.Author = &author
	}
	return &n
}
