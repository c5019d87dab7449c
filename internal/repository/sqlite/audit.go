package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/garnizeh/jobdesk/internal/reqctx"
	"github.com/garnizeh/jobdesk/pkg/models"
)

// writeAudit records a create or update in the caller's transaction. The
// actor and request id come from ctx; both are absent for system writes.
func (r *SQLiteRepo) writeAudit(ctx context.Context, tx *sql.Tx, auditable string, id int64, event string, oldValues, newValues map[string]any) error {
	if oldValues == nil {
		oldValues = map[string]any{}
	}
	if newValues == nil {
		newValues = map[string]any{}
	}
	oldJSON, err := json.Marshal(oldValues)
	if err != nil {
		return fmt.Errorf("marshal old values: %w", err)
	}
	newJSON, err := json.Marshal(newValues)
	if err != nil {
		return fmt.Errorf("marshal new values: %w", err)
	}

	var actor sql.NullInt64
	if uid := reqctx.UserID(ctx); uid != nil {
		actor = sql.NullInt64{Int64: *uid, Valid: true}
	}
	requestID := sql.NullString{String: reqctx.RequestID(ctx), Valid: reqctx.RequestID(ctx) != ""}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO audits (actor_user_id, auditable_type, auditable_id, event, old_values, new_values, request_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		actor, auditable, id, event, string(oldJSON), string(newJSON), requestID, formatTime(r.timestamp()),
	); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}

	r.logger.Debug("audit recorded",
		slog.String("auditable", auditable),
		slog.Int64("id", id),
		slog.String("event", event),
	)
	return nil
}

// ListAudits returns the audit trail of one entity, oldest first.
func (r *SQLiteRepo) ListAudits(ctx context.Context, auditable string, auditableID int64) ([]models.AuditRecord, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, actor_user_id, auditable_type, auditable_id, event, old_values, new_values, request_id, created_at FROM audits WHERE auditable_type = ? AND auditable_id = ? ORDER BY id ASC`, auditable, auditableID)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w", err)
	}
	defer rows.Close()

	out := []models.AuditRecord{}
	for rows.Next() {
		var (
			a                models.AuditRecord
			actor            sql.NullInt64
			oldJSON, newJSON string
			requestID        sql.NullString
			created          string
		)
		if err := rows.Scan(&a.ID, &actor, &a.Auditable, &a.AuditableID, &a.Event, &oldJSON, &newJSON, &requestID, &created); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		if actor.Valid {
			v := actor.Int64
			a.ActorUserID = &v
		}
		if err := json.Unmarshal([]byte(oldJSON), &a.OldValues); err != nil {
			return nil, fmt.Errorf("decode old values: %w", err)
		}
		if err := json.Unmarshal([]byte(newJSON), &a.NewValues); err != nil {
			return nil, fmt.Errorf("decode new values: %w", err)
		}
		a.RequestID = requestID.String
		if a.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
