package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the fixed authorization role set.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account holder. The password hash and reset-token
// fields never serialize to JSON.
type User struct {
	ID                   uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Email                string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Role                 Role           `json:"role" gorm:"type:varchar(20);not null;default:'user';index"`
	PasswordHash         string         `json:"-" gorm:"size:255;not null"`
	PasswordChangedAt    *time.Time     `json:"-"`
	PasswordResetToken   *string        `json:"-" gorm:"size:64;index"`
	PasswordResetExpires *time.Time     `json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeSave normalizes the email to lowercase.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ChangedPasswordAfter reports whether the password changed after the given
// token issue time. Tokens issued before a password change must be rejected.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(*u.PasswordChangedAt)
}
