// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Retention RetentionConfig `koanf:"retention"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL              string        `koanf:"url"`
	AutoMigrate      bool          `koanf:"auto_migrate"`
	MaxOpenConns     int           `koanf:"max_open_conns"`
	MaxIdleConns     int           `koanf:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `koanf:"conn_max_idle_time"`
	StatementTimeout time.Duration `koanf:"statement_timeout"`
	ConnectAttempts  int           `koanf:"connect_attempts"`
}

type RedisConfig struct {
	URL             string `koanf:"url"`
	PoolSize        int    `koanf:"pool_size"`
	MinIdleConns    int    `koanf:"min_idle_conns"`
	ConnectAttempts int    `koanf:"connect_attempts"`
}

type JWTConfig struct {
	PrivateKeyPath     string        `koanf:"private_key_path"`
	PublicKeyPath      string        `koanf:"public_key_path"`
	AccessTokenExpire  time.Duration `koanf:"access_token_expire"`
	RefreshTokenExpire time.Duration `koanf:"refresh_token_expire"`
	Issuer             string        `koanf:"issuer"`
	Audience           string        `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// RetentionConfig controls the purge of soft-deleted entries.
type RetentionConfig struct {
	Days      int `koanf:"days"`
	BatchSize int `koanf:"batch_size"`
}

// BootstrapConfig seeds the first admin account and the default category
// when the users table is empty.
type BootstrapConfig struct {
	AdminEmail    string   `koanf:"admin_email"`
	AdminPassword string   `koanf:"admin_password"`
	CategoryName  string   `koanf:"category_name"`
	SectionNames  []string `koanf:"section_names"`
}

const (
	MinRetentionDays = 1
	MaxRetentionDays = 3650
)

// Load reads defaults, then the optional YAML file at configPath, then the
// environment. A missing file is only tolerated when configPath is empty.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "PromptVault",
		"app.version":     "0.3.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8787,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.auto_migrate":       true,
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.statement_timeout":  "30s",
		"database.connect_attempts":   5,

		"redis.pool_size":        10,
		"redis.min_idle_conns":   5,
		"redis.connect_attempts": 5,

		"jwt.access_token_expire":  "15m",
		"jwt.refresh_token_expire": "720h",
		"jwt.issuer":               "promptvault",
		"jwt.audience":             "promptvault-api",
		"jwt.private_key_path":     "keys/private.pem",
		"jwt.public_key_path":      "keys/public.pem",

		"rate_limit.requests": 120,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:5173"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "promptvault",

		"retention.days":       30,
		"retention.batch_size": 500,

		"bootstrap.admin_email":    "admin@example.com",
		"bootstrap.admin_password": DefaultAdminPassword,
		"bootstrap.category_name":  "General",
		"bootstrap.section_names":  []string{"Inbox", "Reference"},
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"APP_ENV":                     "app.environment",
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"DATABASE_STATEMENT_TIMEOUT":  "database.statement_timeout",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":     "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE":    "jwt.refresh_token_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"CORS_ORIGIN":                 "cors.allowed_origins",
	"RETENTION_DAYS":              "retention.days",
	"RETENTION_BATCH_SIZE":        "retention.batch_size",
	"BOOTSTRAP_ADMIN_EMAIL":       "bootstrap.admin_email",
	"BOOTSTRAP_ADMIN_PASSWORD":    "bootstrap.admin_password",
}

// envKeyReplacer maps known variables onto config keys. CORS_ORIGIN may
// carry a comma separated list.
func envKeyReplacer(key, value string) (string, any) {
	mapped, ok := envKeyMap[key]
	if !ok {
		return "", nil
	}

	if mapped == "cors.allowed_origins" {
		origins := strings.Split(value, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return mapped, origins
	}

	return mapped, value
}

// DefaultAdminPassword is the development bootstrap credential. Production
// refuses to start with it.
const DefaultAdminPassword = "admin1234"

type rule struct {
	broken  func(*Config) bool
	message string
}

var rules = []rule{
	{func(c *Config) bool { return c.Database.URL == "" }, "DATABASE_URL is required"},
	{func(c *Config) bool { return c.Redis.URL == "" }, "REDIS_URL is required"},
	{func(c *Config) bool { return c.JWT.PrivateKeyPath == "" }, "JWT_PRIVATE_KEY_PATH is required"},
	{func(c *Config) bool { return c.JWT.PublicKeyPath == "" }, "JWT_PUBLIC_KEY_PATH is required"},
	{
		func(c *Config) bool {
			return c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*")
		},
		"CORS wildcard '*' cannot be used with allow_credentials",
	},
	{
		func(c *Config) bool { return c.IsProduction() && c.Otel.Enabled && c.Otel.Insecure },
		"OTEL_INSECURE must be false in production",
	},
	{
		func(c *Config) bool {
			return c.IsProduction() && c.Bootstrap.AdminPassword == DefaultAdminPassword
		},
		"BOOTSTRAP_ADMIN_PASSWORD must be changed in production",
	},
	{
		func(c *Config) bool { return c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 },
		"server read and write timeouts must be positive",
	},
	{
		func(c *Config) bool { return c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 },
		"rate_limit.requests and rate_limit.window must be positive",
	},
	{
		func(c *Config) bool {
			return c.Retention.Days < MinRetentionDays || c.Retention.Days > MaxRetentionDays
		},
		fmt.Sprintf("retention.days must be between %d and %d", MinRetentionDays, MaxRetentionDays),
	},
	{func(c *Config) bool { return c.Retention.BatchSize <= 0 }, "retention.batch_size must be positive"},
}

// validate reports every broken rule at once.
func validate(c *Config) error {
	var errs []error
	for _, r := range rules {
		if r.broken(c) {
			errs = append(errs, errors.New(r.message))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
