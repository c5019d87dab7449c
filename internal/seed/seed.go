// Package seed loads demo fixtures (businesses, users, jobs, contacts and
// notes) into the store. Fixture documents are checked against a JSON schema
// before anything is written.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/qri-io/jsonschema"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

// Default file names inside the seed directory.
const (
	FixturesFile = "seed/fixtures.json"
	SchemaFile   = "seed/fixtures.schema.json"
)

type Fixtures struct {
	Businesses []Business `json:"businesses"`
}

type Business struct {
	Label string `json:"label"`
	Users []User `json:"users"`
	Jobs  []Job  `json:"jobs"`
}

type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type Job struct {
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Status      int       `json:"status"`
	Contacts    []Contact `json:"contacts"`
	Notes       []Note    `json:"notes"`
}

type Contact struct {
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	ContactNumber       string `json:"contact_number"`
	PreferredTimeToCall string `json:"preferred_time_to_call"`
}

// Note.Author is the email of a user of the same business.
type Note struct {
	Author string `json:"author"`
	Note   string `json:"note"`
}

// SchemaError lists every schema violation found in a fixture document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "fixtures do not match schema: " + strings.Join(e.Problems, "; ")
}

// Validate checks data against schema. Violations are reported as a
// *SchemaError.
func Validate(ctx context.Context, schema, data []byte) error {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(schema, rs); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	keyErrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return fmt.Errorf("validate fixtures: %w", err)
	}
	if len(keyErrs) == 0 {
		return nil
	}

	problems := make([]string, 0, len(keyErrs))
	for _, ke := range keyErrs {
		path := ke.PropertyPath
		if path == "" {
			path = "/"
		}
		problems = append(problems, path+": "+ke.Message)
	}
	return &SchemaError{Problems: problems}
}

// Parse validates data against schema and decodes it.
func Parse(ctx context.Context, schema, data []byte) (*Fixtures, error) {
	if err := Validate(ctx, schema, data); err != nil {
		return nil, err
	}
	var f Fixtures
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &f, nil
}

// ReadFS reads SchemaFile from schemas and path from fixtures, then parses
// the fixtures. A nil fixtures reads from schemas; an empty path means
// FixturesFile.
func ReadFS(ctx context.Context, schemas, fixtures fs.FS, path string) (*Fixtures, error) {
	schema, err := fs.ReadFile(schemas, SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if fixtures == nil {
		fixtures = schemas
	}
	if path == "" {
		path = FixturesFile
	}
	data, err := fs.ReadFile(fixtures, path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(ctx, schema, data)
}

// Store is the subset of the repository the loader writes through.
type Store interface {
	repository.BusinessRepo
	repository.UserRepo
	repository.JobRepo
	repository.JobContactRepo
	repository.JobNoteRepo
}

type Summary struct {
	Businesses int
	Users      int
	Jobs       int
	Contacts   int
	Notes      int
}

type Loader struct {
	store  Store
	logger *slog.Logger
	cost   int
}

type Option func(*Loader)

// WithCost sets the bcrypt cost used for fixture passwords.
func WithCost(cost int) Option {
	return func(l *Loader) { l.cost = cost }
}

func NewLoader(store Store, logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{store: store, logger: logger, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load inserts the fixtures business by business. It stops at the first
// failure; rows written before it stay in place.
func (l *Loader) Load(ctx context.Context, f *Fixtures) (Summary, error) {
	var sum Summary
	for _, fb := range f.Businesses {
		if err := l.loadBusiness(ctx, fb, &sum); err != nil {
			return sum, fmt.Errorf("business %q: %w", fb.Label, err)
		}
	}
	l.logger.Info("fixtures loaded",
		slog.Int("businesses", sum.Businesses),
		slog.Int("users", sum.Users),
		slog.Int("jobs", sum.Jobs),
		slog.Int("contacts", sum.Contacts),
		slog.Int("notes", sum.Notes),
	)
	return sum, nil
}

func (l *Loader) loadBusiness(ctx context.Context, fb Business, sum *Summary) error {
	b, err := l.store.CreateBusiness(ctx, &models.Business{Label: fb.Label})
	if err != nil {
		return err
	}
	sum.Businesses++

	users := make(map[string]*models.User, len(fb.Users))
	for _, fu := range fb.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(fu.Password), l.cost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", fu.Email, err)
		}
		u, err := l.store.CreateUser(ctx, &models.User{
			BusinessID:   b.ID,
			FirstName:    fu.FirstName,
			LastName:     fu.LastName,
			Email:        fu.Email,
			PasswordHash: string(hash),
		})
		if err != nil {
			return fmt.Errorf("user %s: %w", fu.Email, err)
		}
		users[strings.ToLower(fu.Email)] = u
		sum.Users++
	}

	for _, fj := range fb.Jobs {
		status, err := models.ParseJobStatus(fj.Status)
		if err != nil {
			return fmt.Errorf("job %q: %w", fj.Label, err)
		}
		j, err := l.store.CreateJob(ctx, &models.Job{
			BusinessID:  b.ID,
			Label:       fj.Label,
			Description: fj.Description,
			Status:      status,
		})
		if err != nil {
			return fmt.Errorf("job %q: %w", fj.Label, err)
		}
		sum.Jobs++

		for _, fc := range fj.Contacts {
			if _, err := l.store.CreateJobContact(ctx, &models.JobContact{
				JobID:               j.ID,
				FirstName:           fc.FirstName,
				LastName:            fc.LastName,
				ContactNumber:       fc.ContactNumber,
				PreferredTimeToCall: fc.PreferredTimeToCall,
			}); err != nil {
				return fmt.Errorf("contact on job %q: %w", fj.Label, err)
			}
			sum.Contacts++
		}

		for _, fn := range fj.Notes {
			author, ok := users[strings.ToLower(fn.Author)]
			if !ok {
				return fmt.Errorf("note on job %q: author %s is not a user of this business", fj.Label, fn.Author)
			}
			if _, err := l.store.CreateJobNote(ctx, &models.JobNote{
				JobID:           j.ID,
				CreatedByUserID: author.ID,
				Note:            fn.Note,
			}); err != nil {
				return fmt.Errorf("note on job %q: %w", fj.Label, err)
			}
			sum.Notes++
		}
	}
	return nil
}
