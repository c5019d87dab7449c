package db_test

import (
	"context"
	"path/filepath"
	"testing"

	dbpkg "github.com/garnizeh/jobdesk/internal/db"
)

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	live := filepath.Join(dir, "live.db")
	backup := filepath.Join(dir, "live.db.bak")

	d, err := dbpkg.New(ctx, live, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := d.Exec(ctx, `CREATE TABLE items (name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := d.Exec(ctx, `INSERT INTO items (name) VALUES ('before')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := d.Backup(ctx, backup); err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}
	if err := d.Backup(ctx, backup); err == nil {
		t.Fatalf("expected error when backup target exists")
	}
	if _, err := d.Exec(ctx, `INSERT INTO items (name) VALUES ('after')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if err := dbpkg.Restore(backup, live); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	d, err = dbpkg.New(ctx, live, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()

	var n int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the row present at backup time, got %d", n)
	}
}
