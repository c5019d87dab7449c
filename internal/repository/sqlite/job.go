package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/garnizeh/jobdesk/pkg/jobquery"
	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

const jobColumns = `id, business_id, label, description, status, created_at, updated_at, deleted_at`

func scanJob(s rowScanner) (*models.Job, error) {
	var j models.Job
	var ts timestamps
	dest := append([]any{&j.ID, &j.BusinessID, &j.Label, &j.Description, &j.Status}, ts.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, notFound(err)
	}
	if err := ts.decode(&j.CreatedAt, &j.UpdatedAt, &j.DeletedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	if j == nil {
		return nil, fmt.Errorf("job is nil")
	}
	if !j.Status.Valid() {
		return nil, fmt.Errorf("create job: %w", models.ErrInvalidJobStatus)
	}

	out := *j
	out.CreatedAt = r.timestamp()
	out.UpdatedAt = out.CreatedAt

	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO jobs (business_id, label, description, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			out.BusinessID, out.Label, out.Description, int(out.Status), formatTime(out.CreatedAt), formatTime(out.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert job: %w", err)
		}
		if out.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return r.writeAudit(ctx, tx, models.AuditableJob, out.ID, models.AuditCreated, nil, map[string]any{
			"business_id": out.BusinessID,
			"label":       out.Label,
			"description": out.Description,
			"status":      int(out.Status),
		})
	})
	if err != nil {
		return nil, persistence("create job", err)
	}

	return &out, nil
}

// UpdateJob applies attrs to the stored job. When nothing differs it returns
// (nil, nil) without writing. The argument is never mutated.
func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job, attrs repository.JobAttributes) (*models.Job, error) {
	if j == nil {
		return nil, fmt.Errorf("job is nil")
	}
	if attrs.Status != nil && !attrs.Status.Valid() {
		return nil, fmt.Errorf("update job: %w", models.ErrInvalidJobStatus)
	}

	var out *models.Job
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		stored, err := scanJob(tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ? AND deleted_at IS NULL`, j.ID))
		if err != nil {
			return err
		}

		next := attrs.Apply(*stored)
		changes := models.DiffJob(*stored, next)
		if changes.Empty() {
			return nil
		}
		next.UpdatedAt = r.timestamp()

		if _, err := tx.ExecContext(ctx, `UPDATE jobs SET label = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`,
			next.Label, next.Description, int(next.Status), formatTime(next.UpdatedAt), next.ID); err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		if err := r.writeAudit(ctx, tx, models.AuditableJob, next.ID, models.AuditUpdated, changes.OldValues(), changes.NewValues()); err != nil {
			return err
		}

		out = &next
		return nil
	})
	if err != nil {
		return nil, persistence("update job", err)
	}

	if out == nil {
		r.logger.Debug("job unchanged", slog.Int64("job_id", j.ID))
	}
	return out, nil
}

// FindJob resolves a job regardless of tenant. Callers must authorize access.
func (r *SQLiteRepo) FindJob(ctx context.Context, id int64, mode repository.DeletedMode) (*models.Job, error) {
	return scanJob(r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`+deletedClause(mode, ""), id))
}

// FindJobForBusiness resolves a live job inside one tenant. A job owned by
// another business is reported as repository.ErrNotFound.
func (r *SQLiteRepo) FindJobForBusiness(ctx context.Context, id, businessID int64) (*models.Job, error) {
	return scanJob(r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ? AND business_id = ? AND deleted_at IS NULL`, id, businessID))
}

// ListJobs executes a plan built by jobquery.Build and returns one page of
// jobs together with the total number of matches.
func (r *SQLiteRepo) ListJobs(ctx context.Context, plan jobquery.Plan) ([]models.Job, int64, error) {
	if plan.Where == "" || plan.OrderBy == "" {
		return nil, 0, fmt.Errorf("list jobs: incomplete query plan")
	}

	var total int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE `+plan.Where, plan.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	args := append(slices.Clone(plan.Args), plan.Limit, plan.Offset)
	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs WHERE `+plan.Where+` ORDER BY `+plan.OrderBy+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}
