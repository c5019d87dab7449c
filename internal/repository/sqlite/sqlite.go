package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/garnizeh/jobdesk/internal/db"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

// timeLayout is how timestamps are stored in TEXT columns (always UTC).
const timeLayout = "2006-01-02 15:04:05"

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
	now    func() time.Time
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.BusinessRepo = (*SQLiteRepo)(nil)
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.JobContactRepo = (*SQLiteRepo)(nil)
var _ repository.JobNoteRepo = (*SQLiteRepo)(nil)
var _ repository.AuditRepo = (*SQLiteRepo)(nil)
var _ repository.Repository = (*SQLiteRepo)(nil)

type Option func(*SQLiteRepo)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepo) { r.now = now }
}

func New(conn *db.DB, logger *slog.Logger, opts ...Option) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	r := &SQLiteRepo{conn: conn, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SQLiteRepo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// timestamps collects the three audit columns every table carries.
type timestamps struct {
	created string
	updated string
	deleted sql.NullString
}

func (ts *timestamps) dest() []any {
	return []any{&ts.created, &ts.updated, &ts.deleted}
}

func (ts *timestamps) decode(created, updated *time.Time, deleted **time.Time) error {
	var err error
	if *created, err = parseTime(ts.created); err != nil {
		return err
	}
	if *updated, err = parseTime(ts.updated); err != nil {
		return err
	}
	*deleted, err = parseNullTime(ts.deleted)
	return err
}

func deletedClause(mode repository.DeletedMode, alias string) string {
	if mode == repository.IncludeDeleted {
		return ""
	}
	if alias != "" {
		return " AND " + alias + ".deleted_at IS NULL"
	}
	return " AND deleted_at IS NULL"
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *repository.PersistenceError
	if errors.As(err, &pe) || errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return &repository.PersistenceError{Op: op, Err: err}
}
