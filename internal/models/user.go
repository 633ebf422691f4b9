package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sefazor/eventos-backend/pkg/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `json:"_id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"nombre" gorm:"type:varchar(50);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	Avatar       *string   `json:"avatar" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// plaintext waiting to be hashed by BeforeSave
	password string `gorm:"-"`
}

// SetPassword marks a new plaintext password; it is hashed once on the next save.
func (u *User) SetPassword(plain string) {
	u.password = plain
}

// PasswordPending reports whether a new password has not been hashed yet.
func (u *User) PasswordPending() bool {
	return u.password != ""
}

func (u *User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.ComparePassword(u.PasswordHash, plain) == nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.password == "" && u.PasswordHash == "" {
		return errors.New("user password is required")
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.password == "" {
		return nil
	}
	hash, err := bcrypt.HashPassword(u.password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.password = ""
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserSummary is the public projection of a user embedded in events.
type UserSummary struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"nombre"`
	Email  string    `json:"email"`
	Avatar *string   `json:"avatar"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

type EventSummary struct {
	ID       uuid.UUID `json:"_id"`
	Title    string    `json:"titulo"`
	Date     time.Time `json:"fecha"`
	Location string    `json:"ubicacion"`
}

type ProfileResponse struct {
	User
	EventsCreated  []EventSummary `json:"eventosCreados"`
	EventsAttended []EventSummary `json:"eventosAsistidos"`
}
