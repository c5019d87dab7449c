package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Env            string        `yaml:"env" validate:"required,oneof=development testing production"`
	Addr           string        `yaml:"addr" validate:"required"`
	LogLevel       string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	JWTSecret      string        `yaml:"jwt_secret" validate:"required"`
	APITimeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	DatabasePath   string        `yaml:"database_path" validate:"required"`
	TokenDuration  time.Duration `yaml:"token_duration" validate:"gt=0"`
	PerPage        int           `yaml:"per_page" validate:"gte=1,lte=100"`
	MatchCreatedAt bool          `yaml:"match_created_at"`
}

// LoadConfig builds the configuration from defaults, an optional .env file in
// the working directory, JOBDESK_* environment variables and finally the YAML
// file at path when path is not empty.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	apiTimeout, err := getEnvAsDuration("JOBDESK_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	tokenDuration, err := getEnvAsDuration("JOBDESK_TOKEN_DURATION", 1*time.Hour)
	if err != nil {
		return nil, err
	}
	perPage, err := getEnvAsInt("JOBDESK_PER_PAGE", 10)
	if err != nil {
		return nil, err
	}
	matchCreatedAt, err := getEnvAsBool("JOBDESK_MATCH_CREATED_AT", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:            getEnv("JOBDESK_ENV", "production"),
		Addr:           getEnv("JOBDESK_ADDR", ":8080"),
		LogLevel:       getEnv("JOBDESK_LOG_LEVEL", "info"),
		JWTSecret:      getEnv("JOBDESK_JWT_SECRET", DefaultJWTSecret),
		APITimeout:     apiTimeout,
		DatabasePath:   getEnv("JOBDESK_DATABASE_PATH", "jobdesk.db"),
		TokenDuration:  tokenDuration,
		PerPage:        perPage,
		MatchCreatedAt: matchCreatedAt,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks field constraints and refuses the default JWT secret
// outside development and testing.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.JWTSecret == DefaultJWTSecret && c.Env == "production" {
		return errors.New("config: jwt_secret must be changed from the default in production")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvAsInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvAsBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvAsDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
