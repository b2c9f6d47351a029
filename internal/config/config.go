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

// API key names. Each route tier selects one of these.
const (
	AdminAPIKey = "ADMIN_API_KEY"
	AuthAPIKey  = "AUTH_API_KEY"
	VotesAPIKey = "VOTES_API_KEY"
)

// Throttle backends.
const (
	ThrottleBackendPostgres = "postgres"
	ThrottleBackendRedis    = "redis"
	ThrottleBackendMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	APIKeys  APIKeys
	Throttle ThrottleConfig
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

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// AuthConfig defines session token and password parameters.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLSeconds int
	BcryptCost      int

	// Optional first administrator created at startup when both are set.
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// APIKeys maps a key name (e.g. ADMIN_API_KEY) to its configured static value.
type APIKeys map[string]string

// Lookup returns the configured value for name.
func (k APIKeys) Lookup(name string) (string, bool) {
	val, ok := k[name]
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// RateRule is a request cap of Limit requests per WindowSeconds.
type RateRule struct {
	Limit         int
	WindowSeconds int
}

// Window returns the rule window as a duration.
func (r RateRule) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// ThrottleConfig selects the throttle store and per-route caps.
type ThrottleConfig struct {
	Backend string
	Default RateRule
	Login   RateRule
	Votes   RateRule
}

// Load reads configuration from environment variables, applying defaults where possible.
// It fails when signing or API key configuration is absent.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	defaultRule := RateRule{
		Limit:         getEnvAsInt("THROTTLE_LIMIT", 5),
		WindowSeconds: getEnvAsInt("THROTTLE_WINDOW_SECONDS", 60),
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "vote-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
			TokenTTLSeconds: getEnvAsInt("AUTH_TOKEN_TTL_SECONDS", 360),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),

			BootstrapAdminEmail:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
			BootstrapAdminPassword: os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
		},
		APIKeys: APIKeys{
			AdminAPIKey: os.Getenv(AdminAPIKey),
			AuthAPIKey:  os.Getenv(AuthAPIKey),
			VotesAPIKey: os.Getenv(VotesAPIKey),
		},
		Throttle: ThrottleConfig{
			Backend: strings.ToLower(getEnv("THROTTLE_BACKEND", ThrottleBackendPostgres)),
			Default: defaultRule,
			Login: RateRule{
				Limit:         getEnvAsInt("THROTTLE_LOGIN_LIMIT", defaultRule.Limit),
				WindowSeconds: getEnvAsInt("THROTTLE_LOGIN_WINDOW_SECONDS", defaultRule.WindowSeconds),
			},
			Votes: RateRule{
				Limit:         getEnvAsInt("THROTTLE_VOTES_LIMIT", defaultRule.Limit),
				WindowSeconds: getEnvAsInt("THROTTLE_VOTES_WINDOW_SECONDS", defaultRule.WindowSeconds),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration that must be present before the service starts.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	for _, name := range []string{AdminAPIKey, AuthAPIKey, VotesAPIKey} {
		if _, ok := c.APIKeys.Lookup(name); !ok {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}
	switch c.Throttle.Backend {
	case ThrottleBackendPostgres, ThrottleBackendRedis, ThrottleBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown THROTTLE_BACKEND %q", c.Throttle.Backend))
	}
	for name, rule := range map[string]RateRule{"default": c.Throttle.Default, "login": c.Throttle.Login, "votes": c.Throttle.Votes} {
		if rule.Limit <= 0 || rule.WindowSeconds <= 0 {
			errs = append(errs, fmt.Errorf("throttle %s rule must have positive limit and window", name))
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

// TokenTTL returns the session token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLSeconds) * time.Second
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

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
