package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Store      StoreConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Admin      AdminConfig
	Features   FeatureConfig
	Geo        GeoConfig
	ThankYou   ThankYouConfig
	Kafka      KafkaConfig
	Public     PublicConfig
	Submission SubmissionConfig
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

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// AdminConfig holds the access-control startup settings.
type AdminConfig struct {
	// FallbackSuperAdmins always resolve to super_admin, whatever the allowlist says.
	FallbackSuperAdmins []string
	// BootstrapPassword, when set, creates sign-in accounts for the fallback super-admins.
	BootstrapPassword string
}

// FeatureConfig toggles optional behavior.
type FeatureConfig struct {
	VisitTracking bool
	AIThankYou    bool
}

// GeoConfig configures the best-effort visitor geo lookup.
type GeoConfig struct {
	Endpoint        string
	TimeoutSeconds  int
	CacheTTLMinutes int
}

// ThankYouConfig configures the generative thank-you text provider.
type ThankYouConfig struct {
	APIKey         string
	Model          string
	Endpoint       string
	TimeoutSeconds int
}

// KafkaConfig configures optional event publication. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// PublicConfig holds settings for the public petition pages.
type PublicConfig struct {
	SiteURL         string
	CountOffset     int
	DefaultLanguage string
}

// SubmissionConfig controls the in-flight submission guard and the
// scheduled purge of soft-deleted records (0 disables it).
type SubmissionConfig struct {
	LockTTLSeconds     int
	PurgeIntervalHours int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	dsn := os.Getenv("POSTGRES_DSN")
	defaultDriver := StoreDriverMemory
	if dsn != "" {
		defaultDriver = StoreDriverPostgres
	}
	driver := strings.ToLower(getEnv("STORE_DRIVER", defaultDriver))
	switch driver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", driver)
	}
	if driver == StoreDriverPostgres && dsn == "" {
		return nil, fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "petition-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver:     driver,
			SQLitePath: getEnv("SQLITE_PATH", "./data/petition.db"),
		},
		Postgres: PostgresConfig{
			DSN:            dsn,
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Admin: AdminConfig{
			FallbackSuperAdmins: getEnvAsList("ADMIN_FALLBACK_SUPER_ADMINS"),
			BootstrapPassword:   os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
		},
		Features: FeatureConfig{
			VisitTracking: getEnvAsBool("FEATURE_VISIT_TRACKING", true),
			AIThankYou:    getEnvAsBool("FEATURE_AI_THANK_YOU", true),
		},
		Geo: GeoConfig{
			Endpoint:        getEnv("GEO_ENDPOINT", "https://ipapi.co"),
			TimeoutSeconds:  getEnvAsInt("GEO_TIMEOUT_SECONDS", 3),
			CacheTTLMinutes: getEnvAsInt("GEO_CACHE_TTL_MINUTES", 1440),
		},
		ThankYou: ThankYouConfig{
			APIKey:         os.Getenv("THANK_YOU_API_KEY"),
			Model:          getEnv("THANK_YOU_MODEL", "gemini-2.5-flash"),
			Endpoint:       getEnv("THANK_YOU_ENDPOINT", "https://generativelanguage.googleapis.com"),
			TimeoutSeconds: getEnvAsInt("THANK_YOU_TIMEOUT_SECONDS", 5),
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "petition.events"),
		},
		Public: PublicConfig{
			SiteURL:         getEnv("PUBLIC_SITE_URL", "http://localhost:8080"),
			CountOffset:     getEnvAsInt("PUBLIC_COUNT_OFFSET", 280),
			DefaultLanguage: getEnv("PUBLIC_DEFAULT_LANGUAGE", "de"),
		},
		Submission: SubmissionConfig{
			LockTTLSeconds:     getEnvAsInt("SUBMISSION_LOCK_TTL_SECONDS", 30),
			PurgeIntervalHours: getEnvAsInt("PURGE_INTERVAL_HOURS", 0),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// Timeout returns the geo lookup timeout.
func (g GeoConfig) Timeout() time.Duration {
	return seconds(g.TimeoutSeconds)
}

// CacheTTL returns how long lookups stay cached.
func (g GeoConfig) CacheTTL() time.Duration {
	if g.CacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(g.CacheTTLMinutes) * time.Minute
}

// Timeout returns the text generation timeout.
func (t ThankYouConfig) Timeout() time.Duration {
	return seconds(t.TimeoutSeconds)
}

// LockTTL returns the submission lock lifetime.
func (s SubmissionConfig) LockTTL() time.Duration {
	return seconds(s.LockTTLSeconds)
}

// PurgeInterval returns the scheduled purge period.
func (s SubmissionConfig) PurgeInterval() time.Duration {
	return time.Duration(s.PurgeIntervalHours) * time.Hour
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
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

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
