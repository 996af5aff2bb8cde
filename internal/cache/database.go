package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/facultysite/internal/models"
)

// DatabaseStore keeps fixed-window counters in the primary SQL database so the
// limit holds across restarts and replicas.
type DatabaseStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDatabaseStore constructs a database-backed counter store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	if db == nil {
		return nil
	}
	return &DatabaseStore{db: db, now: time.Now}
}

// Increment bumps the counter for key, starting a new window when the previous
// one has lapsed. It returns the count and the time left in the window.
func (s *DatabaseStore) Increment(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if s == nil {
		return 0, 0, errors.New("cache: database store not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if window <= 0 {
		window = time.Minute
	}

	now := s.now().UTC()
	var entry models.CacheEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Acquire row-level lock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&entry, "counter_key = ?", key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = models.CacheEntry{Key: key, Count: 1, ExpiresAt: now.Add(window)}
			return tx.Create(&entry).Error
		}
		if err != nil {
			return err
		}

		if !entry.ExpiresAt.After(now) {
			entry.Count = 1
			entry.ExpiresAt = now.Add(window)
		} else {
			entry.Count++
		}
		return tx.Save(&entry).Error
	})
	if err != nil {
		return 0, 0, err
	}

	return entry.Count, entry.ExpiresAt.Sub(now), nil
}

// PurgeExpired removes counters whose window closed before now.
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("cache: database handle required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	res := db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.CacheEntry{})
	return res.RowsAffected, res.Error
}
