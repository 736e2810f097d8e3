package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognised by the authorization gate.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User stores an authenticated identity with role-based access.
// Role: "user" | "admin"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Phone        string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time
}

// IsAdmin reports whether the user may call admin-gated operations.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// BeforeCreate assigns the ID in Go so the same model works on Postgres and
// the embedded SQLite store.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
