package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	Admin      AdminConfig
	OfflineAPI OfflineAPIConfig
	Postal     PostalConfig
	DB         DatabaseConfig
	Redis      RedisConfig
	S3         S3Config
	Workspace  WorkspaceConfig
	Screens    ScreenConfig

	CORSAllowedHosts []string
}

// AdminConfig is the single console operator account.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// OfflineAPIConfig points at the remote inventory and billing API.
type OfflineAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PostalConfig configures the postal code lookup used by the billing form.
type PostalConfig struct {
	BaseURL string
	Country string
}

// DatabaseConfig contains PostgreSQL connection parameters. An empty Host
// disables the activity log.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

// S3Config contains the bucket invoice documents are served from. An empty
// Bucket disables presigning.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	URLTTL          time.Duration
}

// WorkspaceConfig controls eviction of idle console workspaces.
type WorkspaceConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// ScreenConfig holds the initial page size of each table screen and what
// select-all covers.
type ScreenConfig struct {
	InventoryPageSize int
	StocksPageSize    int
	BillingPageSize   int
	// SelectAllScope is "filtered" (rows matching the filter) or "loaded"
	// (every loaded row).
	SelectAllScope string
}

// Select-all scopes accepted in SELECT_ALL_SCOPE.
const (
	SelectAllFiltered = "filtered"
	SelectAllLoaded   = "loaded"
)

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:5173,localhost:3000"))

	cfg.Admin = AdminConfig{
		Email:        getEnv("ADMIN_EMAIL", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	cfg.OfflineAPI = OfflineAPIConfig{
		BaseURL: getEnv("OFFLINE_API_BASE_URL", "http://localhost:3000"),
	}

	cfg.Postal = PostalConfig{
		BaseURL: getEnv("POSTAL_API_BASE_URL", "https://api.zippopotam.us"),
		Country: getEnv("POSTAL_COUNTRY", "in"),
	}

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// S3 (invoice documents)
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "ap-south-1"),
		Bucket:          getEnv("S3_BUCKET", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	cfg.Screens = ScreenConfig{
		InventoryPageSize: getEnvInt("INVENTORY_PAGE_SIZE", 5),
		StocksPageSize:    getEnvInt("STOCKS_PAGE_SIZE", 10),
		BillingPageSize:   getEnvInt("BILLING_PAGE_SIZE", 5),
		SelectAllScope:    strings.ToLower(getEnv("SELECT_ALL_SCOPE", SelectAllFiltered)),
	}
	if s := cfg.Screens.SelectAllScope; s != SelectAllFiltered && s != SelectAllLoaded {
		return nil, fmt.Errorf("invalid SELECT_ALL_SCOPE %q: want %s or %s", s, SelectAllFiltered, SelectAllLoaded)
	}

	// Durations
	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "12h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.OfflineAPI.Timeout, err = parseDurationEnv("OFFLINE_API_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid OFFLINE_API_TIMEOUT: %w", err)
	}
	if cfg.Redis.SessionTTL, err = parseDurationEnv("SESSION_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.S3.URLTTL, err = parseDurationEnv("DOCUMENT_URL_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid DOCUMENT_URL_TTL: %w", err)
	}
	if cfg.Workspace.IdleTimeout, err = parseDurationEnv("WORKSPACE_IDLE_TIMEOUT", "30m"); err != nil {
		return nil, fmt.Errorf("invalid WORKSPACE_IDLE_TIMEOUT: %w", err)
	}
	if cfg.Workspace.SweepInterval, err = parseDurationEnv("WORKSPACE_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid WORKSPACE_SWEEP_INTERVAL: %w", err)
	}

	// A partially configured database is a mistake; a missing one disables the activity log.
	if cfg.DB.Enabled() && (cfg.DB.User == "" || cfg.DB.Name == "") {
		return nil, errors.New("database configuration incomplete: ensure DB_USER and DB_NAME are set alongside DB_HOST")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}
	if cfg.Admin.Email == "" || cfg.Admin.PasswordHash == "" {
		return nil, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set")
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
