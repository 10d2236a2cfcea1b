package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Backend modes.
const (
	BackendModeREST     = "rest"
	BackendModePostgres = "postgres"
)

// Session storage kinds.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config aggregates runtime configuration for the kiosk.
type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Session  SessionConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig selects and configures the remote shop backend.
type BackendConfig struct {
	Mode           string
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// PostgresConfig holds DB connection values used when BackendConfig.Mode is postgres.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SessionConfig controls where the staff session lives on this kiosk.
type SessionConfig struct {
	Storage              string
	KioskID              string
	TTLMinutes           int
	SealKeyHex           string
	RevokeTimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "barberdesk-kiosk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			Mode:           strings.ToLower(getEnv("BACKEND_MODE", BackendModeREST)),
			BaseURL:        strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
			APIKey:         os.Getenv("BACKEND_API_KEY"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "kiosk:session:"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Session: SessionConfig{
			Storage:              strings.ToLower(getEnv("SESSION_STORAGE", StorageMemory)),
			KioskID:              strings.TrimSpace(os.Getenv("SESSION_KIOSK_ID")),
			TTLMinutes:           getEnvAsInt("SESSION_TTL_MINUTES", 12*60),
			SealKeyHex:           os.Getenv("SESSION_SEAL_KEY"),
			RevokeTimeoutSeconds: getEnvAsInt("SESSION_REVOKE_TIMEOUT_SECONDS", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Session.KioskID == "" {
		// Memory storage only needs a per-process identity.
		cfg.Session.KioskID = uuid.NewString()
	}
	return cfg, nil
}

// Validate rejects combinations the kiosk cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend.Mode {
	case BackendModeREST:
		if c.Backend.BaseURL == "" {
			errs = append(errs, errors.New("BACKEND_URL is required in rest mode"))
		}
	case BackendModePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required in postgres mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BACKEND_MODE %q", c.Backend.Mode))
	}

	switch c.Session.Storage {
	case StorageMemory, StorageRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORAGE %q", c.Session.Storage))
	}

	if c.Session.Storage == StorageRedis && c.Session.KioskID == "" {
		errs = append(errs, errors.New("SESSION_KIOSK_ID is required with redis storage"))
	}

	if c.Session.SealKeyHex != "" {
		if _, err := c.Session.SealKey(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call backend timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// TTL returns how long a persisted session outlives a stopped kiosk.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// RevokeTimeout bounds a single background revoke call.
func (s SessionConfig) RevokeTimeout() time.Duration {
	if s.RevokeTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.RevokeTimeoutSeconds) * time.Second
}

// SealKey decodes SESSION_SEAL_KEY. A nil key means sealing is disabled.
func (s SessionConfig) SealKey() (*[32]byte, error) {
	if s.SealKeyHex == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(s.SealKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_SEAL_KEY: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("invalid SESSION_SEAL_KEY: want 32 bytes, got %d", len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
