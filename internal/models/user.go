package models

import (
	"strings"
	"time"
)

// User is an account able to sign in to the dashboard.
type User struct {
	BaseModel

	FirstName    string     `gorm:"type:varchar(50);not null" json:"firstName"`
	LastName     string     `gorm:"type:varchar(50);not null" json:"lastName"`
	Email        string     `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	IsVerified   bool       `gorm:"default:false;not null" json:"isVerified"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// NormalizeEmail lower-cases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
