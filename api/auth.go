package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/jobdesk/internal/reqctx"
	"github.com/garnizeh/jobdesk/pkg/models"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

const msgBadCredentials = "The provided credentials are incorrect."

type AuthHandler struct {
	users         repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
	now           func() time.Time
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(users repository.UserRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, tokenDuration: tokenDuration, now: time.Now}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken exchanges email and password for a bearer token bound to the
// user's business and the requesting device.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), req.Email, repository.ExcludeDeleted)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(w, r, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		v := &ValidationError{}
		v.Add("email", msgBadCredentials)
		writeError(w, r, v)
		return
	}

	token, err := h.sign(user, req.DeviceName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reqctx.Logger(r.Context(), logger).Info("token issued",
		slog.Int64("user_id", user.ID),
		slog.String("device", req.DeviceName),
	)
	writeJSON(w, tokenResponse{Token: token}, http.StatusOK)
}

func (h *AuthHandler) sign(user *models.User, device string) (string, error) {
	now := h.now()
	claims := tokenClaims{
		BusinessID: user.BusinessID,
		Device:     device,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenDuration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}
