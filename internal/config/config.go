package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TINKeySize is the required length of the decoded TIN encryption key.
const TINKeySize = 32

var (
	ErrMissingTINKey = errors.New("TAXFILING_TIN_KEY is required")
	ErrInvalidTINKey = errors.New("TAXFILING_TIN_KEY must be base64 encoding of 32 bytes")
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	Email  EmailConfig
	Redis  RedisConfig
	Cache  CacheConfig
	TIN    TINConfig
	Payer  PayerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds token validation settings. Tokens are issued by the identity service.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for filing export archives.
type S3Config struct {
	Region       string `mapstructure:"region"`
	Bucket       string `mapstructure:"bucket"`
	Endpoint     string `mapstructure:"endpoint"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	ExportPrefix string `mapstructure:"export_prefix"`
}

// Enabled reports whether export archiving is configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EmailConfig holds W-9 reminder delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	PortalURL   string `mapstructure:"portal_url"`
}

// RedisConfig holds the stats cache backend. An empty Addr selects the in-memory cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds cache lifetimes.
type CacheConfig struct {
	StatsTTL time.Duration `mapstructure:"stats_ttl"`
}

// TINConfig holds the decoded TIN encryption key.
type TINConfig struct {
	Key []byte
}

// PayerConfig is the payer snapshot used when a tenant has no payer profile.
type PayerConfig struct {
	Name       string `mapstructure:"name"`
	TIN        string `mapstructure:"tin"`
	Line1      string `mapstructure:"line1"`
	City       string `mapstructure:"city"`
	State      string `mapstructure:"state"`
	PostalCode string `mapstructure:"postal_code"`
	Phone      string `mapstructure:"phone"`
}

// Load reads configuration from environment variables with the TAXFILING_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXFILING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors_origins", "http://localhost:3000")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxfiling")
	v.SetDefault("db.password", "taxfiling_secret")
	v.SetDefault("db.name", "taxfiling_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.statement_timeout", "30s")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "taxfiling")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.export_prefix", "filing-exports")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "tax@example.com")
	v.SetDefault("email.from_name", "Tax Compliance")
	v.SetDefault("email.portal_url", "http://localhost:3000")

	// Cache defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.stats_ttl", "5m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "TAXFILING_SERVER_PORT",
		"server.read_timeout":  "TAXFILING_SERVER_READ_TIMEOUT",
		"server.write_timeout": "TAXFILING_SERVER_WRITE_TIMEOUT",
		"server.environment":   "TAXFILING_SERVER_ENVIRONMENT",
		"server.cors_origins":  "TAXFILING_SERVER_CORS_ORIGINS",
		"db.host":              "TAXFILING_DB_HOST",
		"db.port":              "TAXFILING_DB_PORT",
		"db.user":              "TAXFILING_DB_USER",
		"db.password":          "TAXFILING_DB_PASSWORD",
		"db.name":              "TAXFILING_DB_NAME",
		"db.sslmode":           "TAXFILING_DB_SSLMODE",
		"db.max_open":          "TAXFILING_DB_MAX_OPEN",
		"db.max_idle":          "TAXFILING_DB_MAX_IDLE",
		"db.conn_max_lifetime": "TAXFILING_DB_CONN_MAX_LIFETIME",
		"db.statement_timeout": "TAXFILING_DB_STATEMENT_TIMEOUT",
		"jwt.secret":           "TAXFILING_JWT_SECRET",
		"jwt.issuer":           "TAXFILING_JWT_ISSUER",
		"s3.region":            "TAXFILING_S3_REGION",
		"s3.bucket":            "TAXFILING_S3_BUCKET",
		"s3.endpoint":          "TAXFILING_S3_ENDPOINT",
		"s3.access_key":        "TAXFILING_S3_ACCESS_KEY",
		"s3.secret_key":        "TAXFILING_S3_SECRET_KEY",
		"s3.export_prefix":     "TAXFILING_S3_EXPORT_PREFIX",
		"log.level":            "TAXFILING_LOG_LEVEL",
		"log.format":           "TAXFILING_LOG_FORMAT",
		"email.provider":       "TAXFILING_EMAIL_PROVIDER",
		"email.region":         "TAXFILING_EMAIL_REGION",
		"email.from_address":   "TAXFILING_EMAIL_FROM_ADDRESS",
		"email.from_name":      "TAXFILING_EMAIL_FROM_NAME",
		"email.portal_url":     "TAXFILING_EMAIL_PORTAL_URL",
		"redis.addr":           "TAXFILING_REDIS_ADDR",
		"redis.password":       "TAXFILING_REDIS_PASSWORD",
		"redis.db":             "TAXFILING_REDIS_DB",
		"cache.stats_ttl":      "TAXFILING_CACHE_STATS_TTL",
		"tin.key":              "TAXFILING_TIN_KEY",
		"payer.name":           "TAXFILING_PAYER_NAME",
		"payer.tin":            "TAXFILING_PAYER_TIN",
		"payer.line1":          "TAXFILING_PAYER_LINE1",
		"payer.city":           "TAXFILING_PAYER_CITY",
		"payer.state":          "TAXFILING_PAYER_STATE",
		"payer.postal_code":    "TAXFILING_PAYER_POSTAL_CODE",
		"payer.phone":          "TAXFILING_PAYER_PHONE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	key, err := decodeTINKey(v.GetString("tin.key"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXFILING_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXFILING_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		CORSOrigins:  splitList(v.GetString("server.cors_origins")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime:  v.GetDuration("db.conn_max_lifetime"),
		StatementTimeout: v.GetDuration("db.statement_timeout"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:       v.GetString("s3.region"),
		Bucket:       v.GetString("s3.bucket"),
		Endpoint:     v.GetString("s3.endpoint"),
		AccessKey:    v.GetString("s3.access_key"),
		SecretKey:    v.GetString("s3.secret_key"),
		ExportPrefix: strings.Trim(v.GetString("s3.export_prefix"), "/"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		PortalURL:   v.GetString("email.portal_url"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.Cache = CacheConfig{
		StatsTTL: v.GetDuration("cache.stats_ttl"),
	}
	cfg.TIN = TINConfig{Key: key}
	cfg.Payer = PayerConfig{
		Name:       v.GetString("payer.name"),
		TIN:        v.GetString("payer.tin"),
		Line1:      v.GetString("payer.line1"),
		City:       v.GetString("payer.city"),
		State:      v.GetString("payer.state"),
		PostalCode: v.GetString("payer.postal_code"),
		Phone:      v.GetString("payer.phone"),
	}

	return cfg, nil
}

func decodeTINKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingTINKey
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) != TINKeySize {
		return nil, ErrInvalidTINKey
	}
	return key, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
