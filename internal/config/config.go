// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server is the configuration of the dashboard API (cmd/server).
type Server struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	FrontendURL    string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"INFO"`
	AirtableBaseID string        `env:"AIRTABLE_BASE_ID,required,notEmpty"`
	AirtablePAT    string        `env:"AIRTABLE_PAT,required,notEmpty"`
	AirtableAPIURL string        `env:"AIRTABLE_API_URL" envDefault:"https://api.airtable.com/v0"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	RedisURL       string        `env:"REDIS_URL"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"1m"`
	SessionSecret  string        `env:"SESSION_SECRET" envDefault:"dev-secret-change-in-production-32bytes"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	Timezone       string        `env:"DEFAULT_TIMEZONE" envDefault:"Asia/Kolkata"`
	LoginRateLimit int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
}

// Location resolves Timezone.
func (c *Server) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Uploads is the configuration of the upload sidecar (cmd/uploads).
type Uploads struct {
	Port          string `env:"UPLOADS_PORT" envDefault:"4003"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"INFO"`
	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"./uploads"`
	BooksFile     string `env:"BOOKS_FILE" envDefault:"./data/books.json"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:4003"`
	BooksFileLock bool   `env:"BOOKS_FILE_LOCK" envDefault:"false"`
}

// Migrate is the configuration of cmd/migrate.
type Migrate struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

// LoadServer reads Server from .env and the environment.
func LoadServer() (*Server, error) {
	return load[Server]()
}

// LoadUploads reads Uploads from .env and the environment.
func LoadUploads() (*Uploads, error) {
	return load[Uploads]()
}

// LoadMigrate reads Migrate from .env and the environment.
func LoadMigrate() (*Migrate, error) {
	return load[Migrate]()
}

func load[T any]() (*T, error) {
	_ = godotenv.Load()
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
