// Package config provides configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"rishta/pkg/platform/middleware/metadata"
	platformstrings "rishta/pkg/platform/strings"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// Storage drivers
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Sequence backends for profile-id allocation
const (
	SequenceStore = "store"
	SequenceRedis = "redis"
)

// Auth modes
const (
	AuthFirebase = "firebase"
	AuthDev      = "dev"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Log         LogConfig       `mapstructure:"log"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Mongo       MongoConfig     `mapstructure:"mongo"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Payment     PaymentConfig   `mapstructure:"payment"`
	RateLimit   RateLimitConfig `mapstructure:"ratelimit"`
	Audit       AuditConfig     `mapstructure:"audit"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigins     []string      `mapstructure:"corsorigins"`
	TrustedProxies  []string      `mapstructure:"trustedproxies"`
	RequestTimeout  time.Duration `mapstructure:"requesttimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdowntimeout"`
}

// LogConfig controls the slog handler and the optional rotating file sink.
type LogConfig struct {
	Level        string `mapstructure:"level"`
	Format       string `mapstructure:"format"`
	File         string `mapstructure:"file"`
	MaxSizeInMb  int    `mapstructure:"maxsizeinmb"`
	MaxBackups   int    `mapstructure:"maxbackups"`
	MaxAgeInDays int    `mapstructure:"maxageindays"`
}

// StorageConfig selects the document store and the profile-id sequence.
type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	Sequence string `mapstructure:"sequence"`
}

// MongoConfig locates the document store.
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connecttimeout"`
}

// RedisConfig is optional; an empty URL disables Redis.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"poolsize"`
	MinIdleConns int           `mapstructure:"minidleconns"`
	DialTimeout  time.Duration `mapstructure:"dialtimeout"`
	ReadTimeout  time.Duration `mapstructure:"readtimeout"`
	WriteTimeout time.Duration `mapstructure:"writetimeout"`
}

// AuthConfig selects the identity verifier.
type AuthConfig struct {
	Mode              string `mapstructure:"mode"`
	FirebaseProjectID string `mapstructure:"firebaseprojectid"`
}

// PaymentConfig configures the Stripe gateway.
type PaymentConfig struct {
	StripeSecretKey string `mapstructure:"stripesecretkey"`
	Currency        string `mapstructure:"currency"`
}

// RateLimitConfig bounds public write routes per client address.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Disabled bool          `mapstructure:"disabled"`
}

// AuditConfig enables the Kafka audit publisher when brokers are set.
// Without brokers the last MemoryCapacity events are kept in a ring.
type AuditConfig struct {
	KafkaBrokers   []string `mapstructure:"kafkabrokers"`
	KafkaTopic     string   `mapstructure:"kafkatopic"`
	MemoryCapacity int      `mapstructure:"memorycapacity"`
}

// Load reads an optional .env file, then builds the configuration from
// defaults and environment variables.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("environment", Development)
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.corsorigins", []string{"http://localhost:5173"})
	v.SetDefault("server.requesttimeout", 30*time.Second)
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.maxsizeinmb", 20)
	v.SetDefault("log.maxbackups", 10)
	v.SetDefault("log.maxageindays", 30)
	v.SetDefault("storage.driver", StorageMongo)
	v.SetDefault("storage.sequence", SequenceStore)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "rishta_db")
	v.SetDefault("mongo.connecttimeout", 10*time.Second)
	v.SetDefault("redis.poolsize", 10)
	v.SetDefault("redis.minidleconns", 2)
	v.SetDefault("redis.dialtimeout", 5*time.Second)
	v.SetDefault("redis.readtimeout", 3*time.Second)
	v.SetDefault("redis.writetimeout", 3*time.Second)
	v.SetDefault("auth.mode", AuthFirebase)
	v.SetDefault("payment.currency", "usd")
	v.SetDefault("ratelimit.requests", 30)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("audit.kafkatopic", "rishta.audit")
	v.SetDefault("audit.memorycapacity", 10000)

	bindings := map[string]string{
		"environment":             "RISHTA_ENV",
		"server.addr":             "RISHTA_ADDR",
		"server.corsorigins":      "RISHTA_CORS_ORIGINS",
		"server.trustedproxies":   "RISHTA_TRUSTED_PROXIES",
		"server.requesttimeout":   "RISHTA_REQUEST_TIMEOUT",
		"server.shutdowntimeout":  "RISHTA_SHUTDOWN_TIMEOUT",
		"log.level":               "RISHTA_LOG_LEVEL",
		"log.format":              "RISHTA_LOG_FORMAT",
		"log.file":                "RISHTA_LOG_FILE",
		"log.maxsizeinmb":         "RISHTA_LOG_MAX_SIZE_MB",
		"log.maxbackups":          "RISHTA_LOG_MAX_BACKUPS",
		"log.maxageindays":        "RISHTA_LOG_MAX_AGE_DAYS",
		"storage.driver":          "RISHTA_STORAGE_DRIVER",
		"storage.sequence":        "RISHTA_SEQUENCE_BACKEND",
		"mongo.uri":               "RISHTA_MONGO_URI",
		"mongo.database":          "RISHTA_MONGO_DATABASE",
		"mongo.connecttimeout":    "RISHTA_MONGO_CONNECT_TIMEOUT",
		"redis.url":               "RISHTA_REDIS_URL",
		"redis.poolsize":          "RISHTA_REDIS_POOL_SIZE",
		"auth.mode":               "RISHTA_AUTH_MODE",
		"auth.firebaseprojectid":  "RISHTA_FIREBASE_PROJECT_ID",
		"payment.stripesecretkey": "STRIPE_SECRET_KEY",
		"payment.currency":        "RISHTA_PAYMENT_CURRENCY",
		"ratelimit.requests":      "RISHTA_RATE_LIMIT_REQUESTS",
		"ratelimit.window":        "RISHTA_RATE_LIMIT_WINDOW",
		"ratelimit.disabled":      "RISHTA_RATE_LIMIT_DISABLED",
		"audit.kafkabrokers":      "RISHTA_AUDIT_KAFKA_BROKERS",
		"audit.kafkatopic":        "RISHTA_AUDIT_KAFKA_TOPIC",
		"audit.memorycapacity":    "RISHTA_AUDIT_MEMORY_CAPACITY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	// Hosting platforms hand out a bare PORT.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RISHTA_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Server.CORSOrigins = platformstrings.DedupeOrigins(cfg.Server.CORSOrigins)
	cfg.Server.TrustedProxies = platformstrings.DedupeAndTrim(cfg.Server.TrustedProxies)
	cfg.Audit.KafkaBrokers = platformstrings.DedupeAndTrim(cfg.Audit.KafkaBrokers)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return cfg, nil
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	switch c.Environment {
	case Development, Production, Test:
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	switch c.Storage.Driver {
	case StorageMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("mongo storage requires a URI and database")
		}
	case StorageMemory:
		if c.IsProduction() {
			return fmt.Errorf("memory storage is not allowed in production")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}

	switch c.Storage.Sequence {
	case SequenceStore:
	case SequenceRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis sequence backend requires RISHTA_REDIS_URL")
		}
	default:
		return fmt.Errorf("invalid sequence backend: %s", c.Storage.Sequence)
	}

	switch c.Auth.Mode {
	case AuthFirebase:
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("firebase auth requires RISHTA_FIREBASE_PROJECT_ID")
		}
	case AuthDev:
		if c.IsProduction() {
			return fmt.Errorf("dev auth mode is not allowed in production")
		}
	default:
		return fmt.Errorf("invalid auth mode: %s", c.Auth.Mode)
	}

	if c.RateLimit.Disabled && c.IsProduction() {
		return fmt.Errorf("rate limiting cannot be disabled in production")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	if _, err := metadata.ParseTrustedProxies(c.Server.TrustedProxies); err != nil {
		return err
	}
	if c.Audit.MemoryCapacity <= 0 {
		return fmt.Errorf("audit memory capacity must be positive")
	}
	return nil
}

// IsProduction returns true if the environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsDevelopment returns true if the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}
