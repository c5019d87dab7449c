package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

// noteSelect joins each note with its author so presentation never needs a
// second query.
const noteSelect = `SELECT n.id, n.job_id, n.created_by_user_id, n.note, n.created_at, n.updated_at, n.deleted_at,
	u.id, u.business_id, u.first_name, u.last_name, u.email, u.password_hash, u.created_at, u.updated_at, u.deleted_at
	FROM job_notes n JOIN users u ON u.id = n.created_by_user_id`

func scanJobNote(s rowScanner) (*models.JobNote, error) {
	var n models.JobNote
	var u models.User
	var nts, uts timestamps
	dest := []any{&n.ID, &n.JobID, &n.CreatedByUserID, &n.Note}
	dest = append(dest, nts.dest()...)
	dest = append(dest, &u.ID, &u.BusinessID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash)
	dest = append(dest, uts.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, notFound(err)
	}
	if err := nts.decode(&n.CreatedAt, &n.UpdatedAt, &n.DeletedAt); err != nil {
		return nil, err
	}
	if err := uts.decode(&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	n.Author = &u
	return &n, nil
}

// CreateJobNote stores a note and returns it with its author loaded.
func (r *SQLiteRepo) CreateJobNote(ctx context.Context, n *models.JobNote) (*models.JobNote, error) {
	if n == nil {
		return nil, fmt.Errorf("job note is nil")
	}

	var out *models.JobNote
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		now := formatTime(r.timestamp())
		res, err := tx.ExecContext(ctx, `INSERT INTO job_notes (job_id, created_by_user_id, note, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			n.JobID, n.CreatedByUserID, n.Note, now, now)
		if err != nil {
			return fmt.Errorf("insert job note: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := r.writeAudit(ctx, tx, models.AuditableJobNote, id, models.AuditCreated, nil, map[string]any{
			"job_id":             n.JobID,
			"created_by_user_id": n.CreatedByUserID,
			"note":               n.Note,
		}); err != nil {
			return err
		}

		out, err = scanJobNote(tx.QueryRowContext(ctx, noteSelect+` WHERE n.id = ?`, id))
		return err
	})
	if err != nil {
		return nil, persistence("create job note", err)
	}

	return out, nil
}

// UpdateJobNote applies attrs to the stored note. The author never changes.
// Returns (nil, nil) when the text is unchanged.
func (r *SQLiteRepo) UpdateJobNote(ctx context.Context, n *models.JobNote, attrs repository.JobNoteAttributes) (*models.JobNote, error) {
	if n == nil {
		return nil, fmt.Errorf("job note is nil")
	}

	var out *models.JobNote
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		stored, err := scanJobNote(tx.QueryRowContext(ctx, noteSelect+` WHERE n.id = ? AND n.deleted_at IS NULL`, n.ID))
		if err != nil {
			return err
		}

		next := attrs.Apply(*stored)
		changes := models.DiffJobNote(*stored, next)
		if changes.Empty() {
			return nil
		}
		next.UpdatedAt = r.timestamp()

		if _, err := tx.ExecContext(ctx, `UPDATE job_notes SET note = ?, updated_at = ? WHERE id = ?`,
			next.Note, formatTime(next.UpdatedAt), next.ID); err != nil {
			return fmt.Errorf("update job note: %w", err)
		}
		if err := r.writeAudit(ctx, tx, models.AuditableJobNote, next.ID, models.AuditUpdated, changes.OldValues(), changes.NewValues()); err != nil {
			return err
		}

		out = &next
		return nil
	})
	if err != nil {
		return nil, persistence("update job note", err)
	}

	if out == nil {
		r.logger.Debug("job note unchanged", slog.Int64("job_note_id", n.ID))
	}
	return out, nil
}

func (r *SQLiteRepo) FindJobNote(ctx context.Context, id int64, mode repository.DeletedMode) (*models.JobNote, error) {
	return scanJobNote(r.conn.QueryRow(ctx, noteSelect+` WHERE n.id = ?`+deletedClause(mode, "n"), id))
}

// ListJobNotes returns a job's notes with authors, oldest first.
func (r *SQLiteRepo) ListJobNotes(ctx context.Context, jobID int64, mode repository.DeletedMode) ([]models.JobNote, error) {
	rows, err := r.conn.QueryRows(ctx, noteSelect+` WHERE n.job_id = ?`+deletedClause(mode, "n")+` ORDER BY n.id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query job notes: %w", err)
	}
	defer rows.Close()

	out := []models.JobNote{}
	for rows.Next() {
		n, err := scanJobNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job note: %w", err)
		}
		out = append(out, *n)
	}

	return out, rows.Err()
}
