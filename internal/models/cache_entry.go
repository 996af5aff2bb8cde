package models

import (
	"time"
)

// CacheEntry holds a rate limit counter shared by every server instance.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;column:counter_key;size:256"`
	Count     int       `gorm:"not null;default:0"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
