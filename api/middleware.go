package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/garnizeh/jobdesk/internal/reqctx"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

// RequestIDHeader is read from the request and echoed on the response.
const RequestIDHeader = "X-Request-ID"

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestIDMiddleware tags every request with an id and a logger carrying it.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := reqctx.WithRequestID(r.Context(), id)
		ctx = reqctx.WithLogger(ctx, logger.With(slog.String("request_id", id)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		reqctx.Logger(r.Context(), logger).Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				reqctx.Logger(r.Context(), logger).Error("panic", slog.Any("err", err))
				writeMessage(w, msgServerError, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// tokenClaims is the payload of an API token. Subject holds the user id.
type tokenClaims struct {
	BusinessID int64  `json:"business_id"`
	Device     string `json:"device,omitempty"`
	jwt.RegisteredClaims
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// JWTAuthMiddlewareWithSecret resolves the bearer token to a live user and
// stores it in the request context. Tokens whose business no longer matches
// the user's are rejected.
func JWTAuthMiddlewareWithSecret(secret string, users repository.UserRepo) mux.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := reqctx.Logger(r.Context(), logger)

			tokenString := bearerToken(r)
			if tokenString == "" {
				writeMessage(w, msgUnauthenticated, http.StatusUnauthorized)
				return
			}

			var claims tokenClaims
			_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
				return []byte(secret), nil
			})
			if err != nil {
				log.Debug("token rejected", slog.Any("err", err))
				writeMessage(w, msgUnauthenticated, http.StatusUnauthorized)
				return
			}

			userID, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				writeMessage(w, msgUnauthenticated, http.StatusUnauthorized)
				return
			}

			user, err := users.FindUser(r.Context(), userID, repository.ExcludeDeleted)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					log.Error("resolve token user", slog.Int64("user_id", userID), slog.Any("err", err))
				}
				writeMessage(w, msgUnauthenticated, http.StatusUnauthorized)
				return
			}
			if user.BusinessID != claims.BusinessID {
				writeMessage(w, msgUnauthenticated, http.StatusUnauthorized)
				return
			}

			ctx := reqctx.WithUser(r.Context(), user)
			ctx = reqctx.WithLogger(ctx, log.With(slog.Int64("user_id", user.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
