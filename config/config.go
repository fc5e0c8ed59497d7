package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          string `validate:"required,numeric"`
	GinMode       string `validate:"omitempty,oneof=debug release test"`
	LogLevel      string `validate:"required,oneof=debug info warn error"`
	StorageDriver string `validate:"required,oneof=mysql memory"`
	SeedDemoUsers bool

	DB DBConfig

	JWTSecret   string        `validate:"required,min=16"`
	JWTIssuer   string        `validate:"required"`
	JWTAudience string        `validate:"required"`
	JWTTTL      time.Duration `validate:"gt=0"`
	CORSOrigins []string

	ConfirmationWindow      time.Duration `validate:"gt=0"`
	CompletionSweepInterval time.Duration `validate:"gte=0"`
	NotifyQueueSize         int           `validate:"gt=0"`

	SMTP            SMTPConfig
	ExpoAccessToken string

	RateLimit RateLimitConfig
}

type DBConfig struct {
	MaxOpenConns    int           `validate:"gte=0"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type SMTPConfig struct {
	Host     string
	Port     int `validate:"gte=0,lte=65535"`
	Username string
	Password string
	FromName string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int           `validate:"gt=0"`
	Window   time.Duration `validate:"gt=0"`
}

// Load reads .env (if present) and the environment into a validated Config.
// The returned warnings are meant to be logged once a logger exists.
func Load() (*Config, []string, error) {
	var warnings []string
	if err := godotenv.Load(); err != nil {
		warnings = append(warnings, ".env not found or couldn't load it; continuing with environment variables")
	}

	p := &envParser{}
	cfg := &Config{
		Port:          envOrDefault("PORT", "8080"),
		GinMode:       envOrDefault("GIN_MODE", ""),
		LogLevel:      strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		StorageDriver: strings.ToLower(envOrDefault("STORAGE_DRIVER", "mysql")),
		SeedDemoUsers: p.bool("SEED_DEMO_USERS", true),
		DB: DBConfig{
			MaxOpenConns:    p.int("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    p.int("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: p.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		JWTSecret:               envOrDefault("JWT_SECRET", ""),
		JWTIssuer:               envOrDefault("JWT_ISSUER", "houseshow"),
		JWTAudience:             envOrDefault("JWT_AUDIENCE", "houseshow-app"),
		JWTTTL:                  p.duration("JWT_TTL", 72*time.Hour),
		CORSOrigins:             splitList(os.Getenv("CORS_ORIGINS")),
		ConfirmationWindow:      p.duration("BOOKING_CONFIRMATION_WINDOW", 72*time.Hour),
		CompletionSweepInterval: p.duration("COMPLETION_SWEEP_INTERVAL", 15*time.Minute),
		NotifyQueueSize:         p.int("NOTIFY_QUEUE_SIZE", 256),
		SMTP: SMTPConfig{
			Host:     envOrDefault("SMTP_HOST", ""),
			Port:     p.int("SMTP_PORT", 0),
			Username: envOrDefault("SMTP_USERNAME", ""),
			Password: envOrDefault("SMTP_PASSWORD", ""),
			FromName: envOrDefault("SMTP_FROM_NAME", "House Shows"),
		},
		ExpoAccessToken: envOrDefault("EXPO_ACCESS_TOKEN", ""),
		RateLimit: RateLimitConfig{
			Enabled:  p.bool("RATE_LIMIT_ENABLED", true),
			Requests: p.int("RATE_LIMIT_REQUESTS", 200),
			Window:   p.duration("RATE_LIMIT_WINDOW", 5*time.Second),
		},
	}
	if p.err != nil {
		return nil, warnings, p.err
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, warnings, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, warnings, nil
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// envParser keeps the first parse error so Load can report it once.
type envParser struct {
	err error
}

func (p *envParser) int(key string, def int) int {
	raw := envOrDefault(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return v
}

func (p *envParser) bool(key string, def bool) bool {
	raw := envOrDefault(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return v
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	raw := envOrDefault(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return v
}
