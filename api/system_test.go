package api_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestSystemHandlers(t *testing.T) {
	env := newTestEnv(t)

	res := env.do(http.MethodGet, "/health", "", nil)
	expectStatus(t, res, http.StatusOK)
	if ct := res.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("health: expected json content-type, got %q", ct)
	}
	if !strings.Contains(res.Body.String(), `"status":"ok"`) {
		t.Fatalf("health: unexpected body %s", res.Body.String())
	}

	res = env.do(http.MethodGet, "/version", "", nil)
	expectStatus(t, res, http.StatusOK)
	b := res.Body.String()
	if !strings.Contains(b, `"version":"1.0.0"`) || !strings.Contains(b, `"buildTime":"2025-01-01T00:00:00Z"`) {
		t.Fatalf("version: unexpected body %s", b)
	}
}
