// Package resource shapes domain entities into the JSON documents returned by
// the HTTP API.
package resource

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/jobdesk/pkg/jobquery"
	"github.com/garnizeh/jobdesk/pkg/models"
)

// TimeFormat renders timestamps as "09 Mar 2024 14:30".
const TimeFormat = "02 Jan 2006 15:04"

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// With is the set of relation names requested through ?with=a,b.
type With map[string]bool

// ParseWith splits a comma separated relation list. Blank entries are dropped.
func ParseWith(raw string) With {
	w := With{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			w[name] = true
		}
	}
	return w
}

func (w With) Has(name string) bool { return w[name] }

// Names returns the requested relations.
func (w With) Names() []string {
	out := make([]string, 0, len(w))
	for name := range w {
		out = append(out, name)
	}
	return out
}

type Status struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

func NewStatus(s models.JobStatus) Status {
	return Status{ID: int(s), Label: s.Display()}
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func NewUser(u *models.User) *User {
	if u == nil {
		return nil
	}
	return &User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

type JobNote struct {
	ID            int64  `json:"id"`
	Note          string `json:"note"`
	CreatedByUser *User  `json:"created_by_user"`
}

func NewJobNote(n *models.JobNote) JobNote {
	return JobNote{ID: n.ID, Note: n.Note, CreatedByUser: NewUser(n.Author)}
}

type JobContact struct {
	ID                   int64  `json:"id"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	ContactNumber        string `json:"contact_number"`
	PreferredContactTime string `json:"preferred_contact_time"`
}

func NewJobContact(c *models.JobContact) JobContact {
	return JobContact{
		ID:                   c.ID,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		ContactNumber:        c.ContactNumber,
		PreferredContactTime: c.PreferredTimeToCall,
	}
}

// Job omits the notes and contacts keys entirely unless requested.
type Job struct {
	ID          int64         `json:"id"`
	Label       string        `json:"label"`
	Status      Status        `json:"status"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Notes       *[]JobNote    `json:"notes,omitempty"`
	Contacts    *[]JobContact `json:"contacts,omitempty"`
}

func NewJob(j *models.Job, with With) Job {
	out := Job{
		ID:          j.ID,
		Label:       j.Label,
		Status:      NewStatus(j.Status),
		Description: j.Description,
		CreatedAt:   formatTime(j.CreatedAt),
		UpdatedAt:   formatTime(j.UpdatedAt),
	}
	if with.Has("notes") {
		notes := make([]JobNote, 0, len(j.Notes))
		for i := range j.Notes {
			notes = append(notes, NewJobNote(&j.Notes[i]))
		}
		out.Notes = &notes
	}
	if with.Has("contacts") {
		contacts := make([]JobContact, 0, len(j.Contacts))
		for i := range j.Contacts {
			contacts = append(contacts, NewJobContact(&j.Contacts[i]))
		}
		out.Contacts = &contacts
	}
	return out
}

type Audit struct {
	ID          int64          `json:"id"`
	Event       string         `json:"event"`
	ActorUserID *int64         `json:"user_id"`
	OldValues   map[string]any `json:"old_values"`
	NewValues   map[string]any `json:"new_values"`
	RequestID   string         `json:"request_id,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

func NewAudit(a *models.AuditRecord) Audit {
	return Audit{
		ID:          a.ID,
		Event:       a.Event,
		ActorUserID: a.ActorUserID,
		OldValues:   a.OldValues,
		NewValues:   a.NewValues,
		RequestID:   a.RequestID,
		CreatedAt:   formatTime(a.CreatedAt),
	}
}

// Item wraps a single resource as {"data": ...}.
type Item[T any] struct {
	Data T `json:"data"`
}

type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type Meta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int64  `json:"total"`
}

// Collection is a paginated list of resources.
type Collection[T any] struct {
	Data  []T   `json:"data"`
	Links Links `json:"links"`
	Meta  Meta  `json:"meta"`
}

// NewCollection builds pagination links from base (scheme, host and path)
// while keeping the caller's other query parameters.
func NewCollection[T any](data []T, page jobquery.Page, base *url.URL) Collection[T] {
	if data == nil {
		data = []T{}
	}
	link := func(n int) string {
		u := *base
		q := u.Query()
		q.Set("page", strconv.Itoa(n))
		u.RawQuery = q.Encode()
		return u.String()
	}

	links := Links{First: link(1), Last: link(page.LastPage)}
	if page.CurrentPage > 1 {
		prev := link(page.CurrentPage - 1)
		links.Prev = &prev
	}
	if page.CurrentPage < page.LastPage {
		next := link(page.CurrentPage + 1)
		links.Next = &next
	}

	path := *base
	path.RawQuery = ""
	return Collection[T]{
		Data:  data,
		Links: links,
		Meta: Meta{
			CurrentPage: page.CurrentPage,
			From:        page.From,
			LastPage:    page.LastPage,
			Path:        path.String(),
			PerPage:     page.PerPage,
			To:          page.To,
			Total:       page.Total,
		},
	}
}
