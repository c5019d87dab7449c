package db_test

import (
	"context"
	"testing"

	dbfs "github.com/garnizeh/jobdesk/db"
	"github.com/garnizeh/jobdesk/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	applied, err := db.Migrate(ctx, d, dbfs.Migrations)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if len(applied) == 0 {
		t.Fatalf("expected migrations to be applied on a fresh database")
	}

	// Run again to ensure idempotency
	applied, err = db.Migrate(ctx, d, dbfs.Migrations)
	if err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected no migrations on second run, got %v", applied)
	}

	for _, table := range []string{"businesses", "users", "jobs", "job_contacts", "job_notes", "audits"} {
		var name string
		r := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		if err := r.Scan(&name); err != nil {
			t.Fatalf("expected %s table exists: %v", table, err)
		}
	}
}

func TestMigrate_NoteLengthConstraint(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	if _, err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	ts := "2024-01-01 00:00:00"
	stmts := []struct {
		q    string
		args []any
	}{
		{`INSERT INTO businesses (label, created_at, updated_at) VALUES ('b', ?, ?)`, []any{ts, ts}},
		{`INSERT INTO users (business_id, first_name, last_name, email, password_hash, created_at, updated_at) VALUES (1, 'a', 'b', 'a@b.test', 'x', ?, ?)`, []any{ts, ts}},
		{`INSERT INTO jobs (business_id, label, status, created_at, updated_at) VALUES (1, 'job', 1, ?, ?)`, []any{ts, ts}},
	}
	for _, s := range stmts {
		if _, err := d.Exec(ctx, s.q, s.args...); err != nil {
			t.Fatalf("exec %q: %v", s.q, err)
		}
	}

	if _, err := d.Exec(ctx, `INSERT INTO job_notes (job_id, created_by_user_id, note, created_at, updated_at) VALUES (1, 1, 'abcd', ?, ?)`, ts, ts); err == nil {
		t.Fatalf("expected check constraint to reject a 4 character note")
	}
	if _, err := d.Exec(ctx, `INSERT INTO jobs (business_id, label, status, created_at, updated_at) VALUES (1, 'job', 6, ?, ?)`, ts, ts); err == nil {
		t.Fatalf("expected check constraint to reject status 6")
	}
}
