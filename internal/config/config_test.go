package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/jobdesk/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Env:           "production",
		Addr:          ":8080",
		LogLevel:      "info",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "jobdesk.db",
		TokenDuration: 1 * time.Hour,
		PerPage:       10,
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JOBDESK_ENV", "JOBDESK_ADDR", "JOBDESK_LOG_LEVEL", "JOBDESK_JWT_SECRET", "JOBDESK_TIMEOUT",
		"JOBDESK_DATABASE_PATH", "JOBDESK_TOKEN_DURATION", "JOBDESK_PER_PAGE", "JOBDESK_MATCH_CREATED_AT",
	} {
		t.Setenv(k, "")
	}
}

func TestValidate_InsecureJWT_FailsInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = config.DefaultJWTSecret

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in production")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	for _, env := range []string{"development", "testing"} {
		cfg := validConfig()
		cfg.Env = env
		cfg.JWTSecret = config.DefaultJWTSecret

		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected Validate to succeed in %s, got: %v", env, err)
		}
	}
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"UnknownEnv", func(c *config.Config) { c.Env = "staging" }},
		{"MissingAddr", func(c *config.Config) { c.Addr = "" }},
		{"BadLogLevel", func(c *config.Config) { c.LogLevel = "loud" }},
		{"ZeroTimeout", func(c *config.Config) { c.APITimeout = 0 }},
		{"ZeroTokenDuration", func(c *config.Config) { c.TokenDuration = 0 }},
		{"MissingDatabase", func(c *config.Config) { c.DatabasePath = "" }},
		{"PerPageTooSmall", func(c *config.Config) { c.PerPage = 0 }},
		{"PerPageTooLarge", func(c *config.Config) { c.PerPage = 500 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != config.DefaultJWTSecret {
		t.Fatalf("unexpected JWTSecret: got %q", cfg.JWTSecret)
	}
	if cfg.DatabasePath != "jobdesk.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "jobdesk.db")
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 1*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 1*time.Hour)
	}
	if cfg.PerPage != 10 || !cfg.MatchCreatedAt || cfg.Env != "production" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBDESK_PER_PAGE", "25")
	t.Setenv("JOBDESK_MATCH_CREATED_AT", "false")
	t.Setenv("JOBDESK_TIMEOUT", "3s")
	t.Setenv("JOBDESK_ENV", "development")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.PerPage != 25 || cfg.MatchCreatedAt || cfg.APITimeout != 3*time.Second || cfg.Env != "development" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("JOBDESK_PER_PAGE", "many")
	if _, err := config.LoadConfig(""); err == nil {
		t.Fatalf("expected error for non-numeric JOBDESK_PER_PAGE")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := []byte("addr: \":9090\"\njwt_secret: \"filekey\"\ntimeout: \"30s\"\ndatabase_path: \"test.db\"\ntoken_duration: \"2h\"\nper_page: 15\nmatch_created_at: false\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.DatabasePath != "test.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "test.db")
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if cfg.PerPage != 15 || cfg.MatchCreatedAt {
		t.Fatalf("unexpected paging config: %+v", cfg)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("::: not yaml :::"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}
