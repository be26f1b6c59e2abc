// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultDBPassword = "password"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBReadHost     string `mapstructure:"DB_READ_HOST"`
	DBReadPort     string `mapstructure:"DB_READ_PORT"`
	DBReadUser     string `mapstructure:"DB_READ_USER"`
	DBReadPassword string `mapstructure:"DB_READ_PASSWORD"`
	DBSchemaMode   string `mapstructure:"DB_SCHEMA_MODE"`

	DBMaxOpenConns           int `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	RateLimitMax            int `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindowMinutes  int `mapstructure:"RATE_LIMIT_WINDOW_MINUTES"`
	WriteRateLimitPerMinute int `mapstructure:"WRITE_RATE_LIMIT_PER_MINUTE"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// defaults lists every recognised key. Unmarshal only sees keys viper knows
// about, so env-only keys must appear here even when their default is empty.
var defaults = map[string]any{
	"PORT":                         "3000",
	"DB_HOST":                      "localhost",
	"DB_PORT":                      "5432",
	"DB_USER":                      "postgres",
	"DB_PASSWORD":                  defaultDBPassword,
	"DB_NAME":                      "access_request_db",
	"DB_SSLMODE":                   "disable",
	"DB_READ_HOST":                 "",
	"DB_READ_PORT":                 "5432",
	"DB_READ_USER":                 "",
	"DB_READ_PASSWORD":             "",
	"DB_SCHEMA_MODE":               "hybrid",
	"DB_MAX_OPEN_CONNS":            20,
	"DB_MAX_IDLE_CONNS":            5,
	"DB_CONN_MAX_LIFETIME_MINUTES": 5,
	"REDIS_URL":                    "",
	"ALLOWED_ORIGINS":              "*",
	"APP_ENV":                      "development",
	"RATE_LIMIT_MAX":               100,
	"RATE_LIMIT_WINDOW_MINUTES":    15,
	"WRITE_RATE_LIMIT_PER_MINUTE":  30,
	"TRACING_ENABLED":              false,
	"TRACING_EXPORTER":             "stdout",
	"OTLP_ENDPOINT":                "localhost:4318",
	"TRACING_SAMPLE_RATIO":         1.0,
}

// LoadConfig merges, lowest precedence first: built-in defaults, config.yml,
// config.<env>.yml, .env and the process environment. Environments other than
// development and test must ship a profile file.
func LoadConfig() (*Config, error) {
	// .env is a local convenience and usually absent.
	_ = godotenv.Load()

	v := viper.GetViper()
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, dir := range []string{".", "..", "../.."} {
		v.AddConfigPath(dir)
	}
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	if env := strings.ToLower(v.GetString("APP_ENV")); env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
}

// IsProduction reports whether the service runs with production safeguards.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate returns the first broken rule, checking production safeguards last.
func (c *Config) Validate() error {
	type rule struct {
		broken bool
		msg    string
	}
	rules := []rule{
		{c.Port == "", "PORT is required"},
		{c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0, "DB pool sizes cannot be negative"},
		{c.DBMaxOpenConns > 0 && c.DBMaxIdleConns > c.DBMaxOpenConns, "DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS"},
		{c.DBConnMaxLifetimeMinutes < 0, "DB_CONN_MAX_LIFETIME_MINUTES cannot be negative"},
		{c.RateLimitMax <= 0 || c.RateLimitWindowMinutes <= 0, "RATE_LIMIT_MAX and RATE_LIMIT_WINDOW_MINUTES must be positive"},
		{c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1, "TRACING_SAMPLE_RATIO must be between 0 and 1"},
	}
	if c.IsProduction() {
		rules = append(rules,
			rule{c.DBPassword == "" || c.DBPassword == defaultDBPassword, "a strong DB_PASSWORD is required in production"},
			rule{c.DBSSLMode == "" || c.DBSSLMode == "disable", "DB_SSLMODE must not be 'disable' in production"},
		)
	}
	for _, r := range rules {
		if r.broken {
			return errors.New(r.msg)
		}
	}

	if c.IsProduction() && c.AllowedOrigins == "*" {
		log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
	}
	return nil
}

// DSN builds the primary database connection string.
func (c *Config) DSN() string {
	return dsn(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// ReadDSN builds the replica connection string, or "" when no replica is configured.
// Unset replica credentials fall back to the primary's.
func (c *Config) ReadDSN() string {
	if strings.TrimSpace(c.DBReadHost) == "" {
		return ""
	}
	user := c.DBReadUser
	if user == "" {
		user = c.DBUser
	}
	password := c.DBReadPassword
	if password == "" {
		password = c.DBPassword
	}
	port := c.DBReadPort
	if port == "" {
		port = c.DBPort
	}
	return dsn(c.DBReadHost, port, user, password, c.DBName, c.DBSSLMode)
}

func dsn(host, port, user, password, name, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslMode,
	)
}
