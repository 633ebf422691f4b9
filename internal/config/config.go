package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Port            string
	Env             string
	AllowedOrigins  string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	BodyLimit       int
	FrontendURL     string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	// Text search configuration used for to_tsvector (postgres only).
	SearchLanguage string
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type R2Config struct {
	Endpoint        string
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type StorageConfig struct {
	Driver   string // local or s3
	LocalDir string
	MaxBytes int64
	R2       R2Config
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
}

type RateLimitConfig struct {
	AuthMax        int
	AuthExpiration time.Duration
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	LogLevel  string
}

func LoadConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			Env:             getEnv("APP_ENV", "development"),
			AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			BodyLimit:       getEnvAsInt("SERVER_BODY_LIMIT", 8*1024*1024),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
			SearchLanguage:  getEnv("SEARCH_LANGUAGE", "spanish"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Issuer: getEnv("JWT_ISSUER", "eventos-app"),
			TTL:    getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			LocalDir: getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
			R2: R2Config{
				Endpoint:        getEnv("R2_ENDPOINT", ""),
				AccountID:       getEnv("R2_ACCOUNT_ID", ""),
				AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
				Bucket:          getEnv("R2_BUCKET", ""),
				PublicURL:       getEnv("R2_PUBLIC_URL", ""),
			},
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromAddress:  getEnv("EMAIL_FROM_ADDRESS", "no-reply@eventos.app"),
			FromName:     getEnv("EMAIL_FROM_NAME", "Eventos"),
		},
		RateLimit: RateLimitConfig{
			AuthMax:        getEnvAsInt("RATE_LIMIT_AUTH_MAX", 20),
			AuthExpiration: getEnvAsDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
		},
		LogLevel: getEnv("LOG_LEVEL", ""),
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	} else if c.IsProduction() && len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters in production"))
	}
	switch c.Storage.Driver {
	case "local":
	case "s3", "r2":
		if c.Storage.R2.Bucket == "" {
			errs = append(errs, errors.New("R2_BUCKET is required for the s3 storage driver"))
		}
	default:
		errs = append(errs, errors.New("STORAGE_DRIVER must be local or s3"))
	}
	if c.Storage.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
