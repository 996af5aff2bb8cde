package models

import "time"

// TokenRecord is the server-side half of a single-use emailed token. The
// signed token itself is never stored, only its SHA-256 digest.
type TokenRecord struct {
	BaseModel

	TokenHash string    `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	Email     string    `gorm:"type:varchar(320);not null" json:"email"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
}

// Expired reports whether the record is past its expiry at now.
func (r TokenRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// EmailVerificationToken is issued at registration.
type EmailVerificationToken struct {
	TokenRecord
}

func (EmailVerificationToken) TableName() string { return "email_verification_tokens" }

// PasswordResetToken is issued by the forgot-password flow.
type PasswordResetToken struct {
	TokenRecord
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
