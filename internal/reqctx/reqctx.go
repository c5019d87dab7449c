// Package reqctx carries per-request values (authenticated user, request id,
// scoped logger) through context.Context.
package reqctx

import (
	"context"
	"log/slog"

	"github.com/garnizeh/jobdesk/pkg/models"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	requestIDKey ctxKey = "request_id"
	loggerKey    ctxKey = "logger"
)

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// User returns the authenticated user, if any.
func User(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// UserID returns the authenticated user's id or nil for system actions.
func UserID(ctx context.Context) *int64 {
	if u, ok := User(ctx); ok {
		id := u.ID
		return &id
	}
	return nil
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Logger returns the request scoped logger, falling back to fallback.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return fallback
}
