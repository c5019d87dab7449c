package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

const contactColumns = `id, job_id, first_name, last_name, contact_number, preferred_time_to_call, created_at, updated_at, deleted_at`

func (r *SQLiteRepo) CreateJobContact(ctx context.Context, c *models.JobContact) (*models.JobContact, error) {
	if c == nil {
		return nil, fmt.Errorf("job contact is nil")
	}

	out := *c
	out.CreatedAt = r.timestamp()
	out.UpdatedAt = out.CreatedAt

	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO job_contacts (job_id, first_name, last_name, contact_number, preferred_time_to_call, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			out.JobID, out.FirstName, out.LastName, out.ContactNumber, out.PreferredTimeToCall, formatTime(out.CreatedAt), formatTime(out.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert job contact: %w", err)
		}
		if out.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return r.writeAudit(ctx, tx, models.AuditableJobContact, out.ID, models.AuditCreated, nil, map[string]any{
			"job_id":                 out.JobID,
			"first_name":             out.FirstName,
			"last_name":              out.LastName,
			"contact_number":         out.ContactNumber,
			"preferred_time_to_call": out.PreferredTimeToCall,
		})
	})
	if err != nil {
		return nil, persistence("create job contact", err)
	}

	return &out, nil
}

func (r *SQLiteRepo) ListJobContacts(ctx context.Context, jobID int64, mode repository.DeletedMode) ([]models.JobContact, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+contactColumns+` FROM job_contacts WHERE job_id = ?`+deletedClause(mode, "")+` ORDER BY id ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query job contacts: %w", err)
	}
	defer rows.Close()

	out := []models.JobContact{}
	for rows.Next() {
		var c models.JobContact
		var ts timestamps
		dest := append([]any{&c.ID, &c.JobID, &c.FirstName, &c.LastName, &c.ContactNumber, &c.PreferredTimeToCall}, ts.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan job contact: %w", err)
		}
		if err := ts.decode(&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}
