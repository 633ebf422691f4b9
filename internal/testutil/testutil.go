// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/pkg/database"
	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), database.GormConfig("silent"))
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	// one connection: every handle sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.RunMigrations(db, ""); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given password (hashed by the model hook).
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email}
	user.SetPassword(password)
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}
	return user
}

// CreateEvent inserts an active event one week ahead owned by creator.
func CreateEvent(t *testing.T, db *gorm.DB, creator *models.User, title string, capacity *int) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:       title,
		Description: "An event used by tests, long enough to validate.",
		Date:        time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Second),
		Location:    "Konoha Village",
		CreatorID:   creator.ID,
		Capacity:    capacity,
		Category:    models.CategoryOther,
		Status:      models.StatusActive,
	}
	if err := db.Omit("Creator", "Attendances").Create(event).Error; err != nil {
		t.Fatalf("failed creating test event: %v", err)
	}
	return event
}

// Join inserts an attendance row directly.
func Join(t *testing.T, db *gorm.DB, event *models.Event, user *models.User) {
	t.Helper()

	if err := db.Create(&models.EventAttendee{EventID: event.ID, UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed joining test event: %v", err)
	}
}

func IntPtr(n int) *int {
	return &n
}
