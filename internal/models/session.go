package models

import "time"

// Session backs a refresh token issued to a signed-in administrator.
type Session struct {
	BaseModel

	UserID           string     `gorm:"type:uuid;not null;index" json:"userId"`
	RefreshTokenHash string     `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	IPAddress        string     `gorm:"type:varchar(64)" json:"ipAddress"`
	UserAgent        string     `gorm:"type:varchar(512)" json:"userAgent"`
	ExpiresAt        time.Time  `gorm:"index;not null" json:"expiresAt"`
	LastUsedAt       time.Time  `json:"lastUsedAt"`
	RevokedAt        *time.Time `json:"revokedAt,omitempty"`
}
