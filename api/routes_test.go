package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/jobdesk/api"
	dbfs "github.com/garnizeh/jobdesk/db"
	"github.com/garnizeh/jobdesk/internal/config"
	dbpkg "github.com/garnizeh/jobdesk/internal/db"
	sqlite "github.com/garnizeh/jobdesk/internal/repository/sqlite"
	"github.com/garnizeh/jobdesk/pkg/models"
)

const (
	testSecret   = "test-secret"
	testPassword = "password123"
)

type testEnv struct {
	t      *testing.T
	router http.Handler
	repo   *sqlite.SQLiteRepo
}

type tenant struct {
	business *models.Business
	user     *models.User
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	d, err := dbpkg.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if _, err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		Env:            "testing",
		Addr:           ":0",
		JWTSecret:      testSecret,
		APITimeout:     5 * time.Second,
		DatabasePath:   ":memory:",
		TokenDuration:  time.Hour,
		PerPage:        10,
		MatchCreatedAt: true,
	}
	router, err := api.SetupRoutes(cfg, "1.0.0", "2025-01-01T00:00:00Z", d, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("SetupRoutes error: %v", err)
	}

	return &testEnv{t: t, router: router, repo: sqlite.New(d, nil)}
}

// newTenant creates a business with one user and signs the user in.
func (e *testEnv) newTenant(label, email string) tenant {
	e.t.Helper()
	ctx := context.Background()

	b, err := e.repo.CreateBusiness(ctx, &models.Business{Label: label})
	if err != nil {
		e.t.Fatalf("CreateBusiness error: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		e.t.Fatalf("bcrypt error: %v", err)
	}
	u, err := e.repo.CreateUser(ctx, &models.User{
		BusinessID:   b.ID,
		FirstName:    "Test",
		LastName:     label,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		e.t.Fatalf("CreateUser error: %v", err)
	}

	res := e.do(http.MethodPost, "/sanctum/token", "", map[string]string{
		"email":       email,
		"password":    testPassword,
		"device_name": "test",
	})
	if res.Code != http.StatusOK {
		e.t.Fatalf("token: expected 200 got %d: %s", res.Code, res.Body.String())
	}
	var tr struct {
		Token string `json:"token"`
	}
	decodeBody(e.t, res, &tr)

	return tenant{business: b, user: u, token: tr.Token}
}

func (e *testEnv) createJob(businessID int64, label string, status models.JobStatus) *models.Job {
	e.t.Helper()
	j, err := e.repo.CreateJob(context.Background(), &models.Job{
		BusinessID:  businessID,
		Label:       label,
		Description: "Replace gutters",
		Status:      status,
	})
	if err != nil {
		e.t.Fatalf("CreateJob error: %v", err)
	}
	return j
}

func (e *testEnv) createNote(job *models.Job, author *models.User, text string) *models.JobNote {
	e.t.Helper()
	n, err := e.repo.CreateJobNote(context.Background(), &models.JobNote{JobID: job.ID, CreatedByUserID: author.ID, Note: text})
	if err != nil {
		e.t.Fatalf("CreateJobNote error: %v", err)
	}
	return n
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(res.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", res.Body.String(), err)
	}
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func expectStatus(t *testing.T, res *httptest.ResponseRecorder, want int) {
	t.Helper()
	if res.Code != want {
		t.Fatalf("expected status %d got %d: %s", want, res.Code, res.Body.String())
	}
}

func expectFieldError(t *testing.T, res *httptest.ResponseRecorder, field, message string) {
	t.Helper()
	expectStatus(t, res, http.StatusUnprocessableEntity)
	var eb errorBody
	decodeBody(t, res, &eb)
	msgs := eb.Errors[field]
	if len(msgs) == 0 || msgs[0] != message {
		t.Fatalf("expected %s error %q, got %v", field, message, eb.Errors)
	}
}

func jobPath(id int64, suffix string) string {
	return fmt.Sprintf("/jobs/%d%s", id, suffix)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(http.MethodGet, "/nope", "", nil)
	expectStatus(t, res, http.StatusNotFound)
	if ct := res.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected json content-type, got %q", ct)
	}

	res = env.do(http.MethodGet, "/sanctum/token", "", nil)
	expectStatus(t, res, http.StatusMethodNotAllowed)
}

func TestRouter_PreflightSkipsAuth(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(http.MethodOptions, "/jobs", "", nil)
	expectStatus(t, res, http.StatusNoContent)
	if got := res.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "PATCH") {
		t.Fatalf("expected PATCH in Allow-Methods, got %q", got)
	}
}

func TestRouter_RequestID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(api.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if got := w.Header().Get(api.RequestIDHeader); got != "req-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodGet, "/health", "", nil)

	res := env.do(http.MethodGet, "/metrics", "", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), `http_requests_total{method="GET",path="/health",service="jobdesk",status="200"} 1`) {
		t.Fatalf("expected health request counted, got:\n%s", res.Body.String())
	}
}
