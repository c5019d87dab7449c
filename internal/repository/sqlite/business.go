package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

func (r *SQLiteRepo) CreateBusiness(ctx context.Context, b *models.Business) (*models.Business, error) {
	if b == nil {
		return nil, fmt.Errorf("business is nil")
	}

	out := *b
	out.CreatedAt = r.timestamp()
	out.UpdatedAt = out.CreatedAt

	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO businesses (label, created_at, updated_at) VALUES (?, ?, ?)`,
			out.Label, formatTime(out.CreatedAt), formatTime(out.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert business: %w", err)
		}
		if out.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return r.writeAudit(ctx, tx, models.AuditableBusiness, out.ID, models.AuditCreated, nil, map[string]any{"label": out.Label})
	})
	if err != nil {
		return nil, persistence("create business", err)
	}

	return &out, nil
}

func (r *SQLiteRepo) FindBusiness(ctx context.Context, id int64, mode repository.DeletedMode) (*models.Business, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, label, created_at, updated_at, deleted_at FROM businesses WHERE id = ?`+deletedClause(mode, ""), id)

	var b models.Business
	var ts timestamps
	if err := row.Scan(append([]any{&b.ID, &b.Label}, ts.dest()...)...); err != nil {
		return nil, notFound(err)
	}
	if err := ts.decode(&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
		return nil, err
	}

	return &b, nil
}
