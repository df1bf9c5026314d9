// Package config handles loading and validation of storefront configuration.
// Supports both development (.env file and env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"golang.org/x/mod/semver"

	"learnhub-storefront/internal/i18n"
)

// Config holds all storefront configuration.
// Environment determines whether the service token loads from env vars (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// Backend settings
	APIBaseURL     string
	RequestTimeout time.Duration
	RateLimitRPS   float64 // 0 disables outbound pacing
	RateBurst      int
	MinAPIVersion  string // oldest backend X-API-Version considered current
	ChromeTLS      bool   // dial the backend with a Chrome TLS fingerprint

	// Session settings
	CredentialsPath string // token/user pair persisted between runs
	ServiceToken    string // bearer token for unattended deployments

	// Presentation defaults, overridable per request
	Locale   i18n.Locale
	Currency string

	// GCP settings (required in production)
	GCPProject  string
	TokenSecret string // Secret Manager secret holding ServiceToken
}

// fileConfig mirrors the JSON structure of CONFIG_FILE.
type fileConfig struct {
	Port            string  `json:"port"`
	Environment     string  `json:"environment"`
	LogLevel        string  `json:"log_level"`
	APIBaseURL      string  `json:"api_base_url"`
	RequestTimeout  string  `json:"request_timeout"`
	RateLimitRPS    float64 `json:"rate_limit_rps"`
	RateBurst       int     `json:"rate_burst"`
	MinAPIVersion   string  `json:"min_api_version"`
	ChromeTLS       bool    `json:"chrome_tls"`
	CredentialsPath string  `json:"credentials_path"`
	ServiceToken    string  `json:"service_token"`
	Locale          string  `json:"locale"`
	Currency        string  `json:"currency"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars (after .env in development) / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	if envOrDefault("ENVIRONMENT", "development") == "development" {
		if err := loadDotEnv(envOrDefault("DOTENV_FILE", ".env")); err != nil {
			return nil, err
		}
	}

	cfg, err := loadFromEnv()
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.TokenSecret != "" {
			if err := cfg.loadFromSecretManager(ctx); err != nil {
				return nil, fmt.Errorf("loading service token: %w", err)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv loads path into the environment. Variables already set win.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// loadFromEnv reads configuration from individual environment variables.
func loadFromEnv() (*Config, error) {
	cfg := &Config{
		Port:            envOrDefault("PORT", "8080"),
		Environment:     envOrDefault("ENVIRONMENT", "development"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		APIBaseURL:      os.Getenv("API_BASE_URL"),
		MinAPIVersion:   os.Getenv("MIN_API_VERSION"),
		CredentialsPath: envOrDefault("CREDENTIALS_PATH", defaultCredentialsPath()),
		ServiceToken:    os.Getenv("SERVICE_TOKEN"),
		Locale:          i18n.Locale(envOrDefault("LOCALE", string(i18n.Default))),
		Currency:        strings.ToUpper(envOrDefault("CURRENCY", "USD")),
		GCPProject:      os.Getenv("GCP_PROJECT"),
		TokenSecret:     os.Getenv("TOKEN_SECRET"),
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", envOrDefault("REQUEST_TIMEOUT", "30s")); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloat("RATE_LIMIT_RPS", envOrDefault("RATE_LIMIT_RPS", "0")); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = parseInt("RATE_BURST", envOrDefault("RATE_BURST", "1")); err != nil {
		return nil, err
	}
	if cfg.ChromeTLS, err = parseBool("CHROME_TLS", envOrDefault("CHROME_TLS", "false")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	timeout, err := parseDuration("request_timeout", withDefault(fc.RequestTimeout, "30s"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            withDefault(fc.Port, "8080"),
		Environment:     withDefault(fc.Environment, "development"),
		LogLevel:        withDefault(fc.LogLevel, "info"),
		APIBaseURL:      fc.APIBaseURL,
		RequestTimeout:  timeout,
		RateLimitRPS:    fc.RateLimitRPS,
		RateBurst:       fc.RateBurst,
		MinAPIVersion:   fc.MinAPIVersion,
		ChromeTLS:       fc.ChromeTLS,
		CredentialsPath: withDefault(fc.CredentialsPath, defaultCredentialsPath()),
		ServiceToken:    fc.ServiceToken,
		Locale:          i18n.Locale(withDefault(fc.Locale, string(i18n.Default))),
		Currency:        strings.ToUpper(withDefault(fc.Currency, "USD")),
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 1
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromSecretManager fetches the service token from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{token_secret}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.TokenSecret)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	c.ServiceToken = strings.TrimSpace(string(result.Payload.Data))
	if c.ServiceToken == "" {
		return fmt.Errorf("secret %s is empty", secretName)
	}
	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api_base_url: scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api_base_url: missing host")
	}

	locale, ok := i18n.Parse(string(c.Locale))
	if !ok {
		return fmt.Errorf("unsupported locale %q (en or ar)", c.Locale)
	}
	c.Locale = locale

	if !i18n.SupportedCurrency(c.Currency) {
		return fmt.Errorf("unsupported currency %q", c.Currency)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate_limit_rps must not be negative")
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.MinAPIVersion != "" && !semver.IsValid(normalizeVersion(c.MinAPIVersion)) {
		return fmt.Errorf("invalid min_api_version %q: not a semantic version", c.MinAPIVersion)
	}

	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// defaultCredentialsPath places the token/user pair under the user config dir.
func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".learnhub-credentials.json"
	}
	return filepath.Join(dir, "learnhub", "credentials.json")
}

// normalizeVersion adds "v" prefix if needed for semver parsing.
func normalizeVersion(v string) string {
	if v != "" && v[0] != 'v' {
		return "v" + v
	}
	return v
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(key, val string) (time.Duration, error) {
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}

func parseFloat(key, val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return f, nil
}

func parseInt(key, val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func parseBool(key, val string) (bool, error) {
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}
