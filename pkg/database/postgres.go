package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sefazor/eventos-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SearchLanguage  string
}

// GormConfig is shared by the postgres connection and the sqlite test databases.
func GormConfig(level string) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(parseLogLevel(level)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func NewDatabase(opts Options, log *zap.Logger) (*gorm.DB, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(opts.URL), GormConfig(opts.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	log.Info("database connected", zap.Int("max_open_conns", opts.MaxOpenConns))
	return db, nil
}

func RunMigrations(db *gorm.DB, searchLanguage string) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventAttendee{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := createSearchIndex(db, searchLanguage); err != nil {
			return err
		}
	}
	return nil
}

// SearchVector is the expression matched by full text search; the GIN index
// is built over the same expression so the planner can use it.
func SearchVector(language string) string {
	return fmt.Sprintf("to_tsvector('%s', coalesce(title, '') || ' ' || coalesce(description, ''))", sanitizeLanguage(language))
}

func createSearchIndex(db *gorm.DB, language string) error {
	stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_events_search ON events USING GIN (%s)", SearchVector(language))
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create search index: %w", err)
	}
	return nil
}

// SearchConfig is the text search configuration passed to plainto_tsquery.
func SearchConfig(language string) string {
	return sanitizeLanguage(language)
}

// Text search configuration names are identifiers; anything else falls back to simple.
func sanitizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return "simple"
	}
	for _, r := range language {
		if (r < 'a' || r > 'z') && r != '_' {
			return "simple"
		}
	}
	return language
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
