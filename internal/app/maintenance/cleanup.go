package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	iauth "github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/cache"
	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/logger"
	"github.com/charlesng35/facultysite/pkg/metrics"
)

const (
	defaultSessionSpec = "@hourly"
	defaultTokenSpec   = "@hourly"
)

// Cleaner purges expired admin sessions, expired verification and reset
// tokens and lapsed rate limit counters on a cron schedule.
type Cleaner struct {
	db       *gorm.DB
	sessions *iauth.SessionService
	cron     *cron.Cron
	now      func() time.Time
	log      *zap.Logger

	sessionSchedule string
	tokenSchedule   string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for token expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithSessionSchedule overrides the cron specification for session cleanup.
func WithSessionSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.sessionSchedule = spec
		}
	}
}

// WithTokenSchedule overrides the cron specification for token cleanup.
func WithTokenSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.tokenSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil sessions service skips session
// cleanup; a nil db skips token cleanup.
func NewCleaner(db *gorm.DB, sessions *iauth.SessionService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		db:              db,
		sessions:        sessions,
		now:             time.Now,
		sessionSchedule: defaultSessionSpec,
		tokenSchedule:   defaultTokenSpec,
		log:             logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.sessions == nil && c.db == nil {
		return nil
	}

	if c.sessions != nil {
		if _, err := c.cron.AddFunc(c.sessionSchedule, func() {
			if err := c.cleanupSessions(context.Background()); err != nil {
				c.log.Warn("session cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.db != nil {
		if _, err := c.cron.AddFunc(c.tokenSchedule, func() {
			if err := c.cleanupTokens(context.Background()); err != nil {
				c.log.Warn("token cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	c.log.Info("maintenance scheduled",
		zap.String("sessions", c.sessionSchedule),
		zap.String("tokens", c.tokenSchedule),
	)
	return nil
}

// Stop halts the underlying scheduler. The returned context is done once
// running jobs have completed.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every cleanup routine sequentially and returns all failures.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	if c.sessions != nil {
		errs = multierr.Append(errs, c.cleanupSessions(ctx))
	}
	if c.db != nil {
		errs = multierr.Append(errs, c.cleanupTokens(ctx))
	}
	return errs
}

func (c *Cleaner) cleanupSessions(ctx context.Context) error {
	removed, err := c.sessions.CleanupExpired(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		metrics.MaintenancePurged.WithLabelValues("sessions").Add(float64(removed))
		c.log.Debug("purged sessions", zap.Int64("count", removed))
	}
	return nil
}

func (c *Cleaner) cleanupTokens(ctx context.Context) error {
	removed, err := services.PurgeExpiredTokens(ctx, c.db, c.now())
	for kind, count := range removed {
		if count == 0 {
			continue
		}
		metrics.MaintenancePurged.WithLabelValues(string(kind) + "_tokens").Add(float64(count))
		c.log.Debug("purged tokens", zap.String("kind", string(kind)), zap.Int64("count", count))
	}

	counters, purgeErr := cache.PurgeExpired(ctx, c.db, c.now())
	if counters > 0 {
		metrics.MaintenancePurged.WithLabelValues("rate_counters").Add(float64(counters))
	}
	return multierr.Append(err, purgeErr)
}
