package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

const userColumns = `id, business_id, first_name, last_name, email, password_hash, created_at, updated_at, deleted_at`

func scanUser(s rowScanner) (*models.User, error) {
	var u models.User
	var ts timestamps
	dest := append([]any{&u.ID, &u.BusinessID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash}, ts.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, notFound(err)
	}
	if err := ts.decode(&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser stores a user. PasswordHash must already be hashed.
func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil {
		return nil, fmt.Errorf("user is nil")
	}

	out := *u
	out.CreatedAt = r.timestamp()
	out.UpdatedAt = out.CreatedAt

	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO users (business_id, first_name, last_name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			out.BusinessID, out.FirstName, out.LastName, out.Email, out.PasswordHash, formatTime(out.CreatedAt), formatTime(out.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if out.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return r.writeAudit(ctx, tx, models.AuditableUser, out.ID, models.AuditCreated, nil, map[string]any{
			"business_id": out.BusinessID,
			"first_name":  out.FirstName,
			"last_name":   out.LastName,
			"email":       out.Email,
		})
	})
	if err != nil {
		return nil, persistence("create user", err)
	}

	return &out, nil
}

func (r *SQLiteRepo) FindUser(ctx context.Context, id int64, mode repository.DeletedMode) (*models.User, error) {
	return scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`+deletedClause(mode, ""), id))
}

func (r *SQLiteRepo) FindUserByEmail(ctx context.Context, email string, mode repository.DeletedMode) (*models.User, error) {
	return scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`+deletedClause(mode, ""), email))
}
