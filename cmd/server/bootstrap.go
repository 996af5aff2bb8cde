package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/api"
	"github.com/charlesng35/facultysite/internal/app"
	"github.com/charlesng35/facultysite/internal/app/maintenance"
	"github.com/charlesng35/facultysite/internal/database"
	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/logger"
	"github.com/charlesng35/facultysite/pkg/mail"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB       *gorm.DB
	Services *api.Services
	Cleaner  *maintenance.Cleaner
	Router   *gin.Engine
}

// bootstrapRuntime initialises the database, services, background jobs and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			if shutdownErr := stack.Shutdown(context.Background()); shutdownErr != nil {
				log.Warn("partial bootstrap cleanup failed", zap.Error(shutdownErr))
			}
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	mailer, err := mail.New(cfg.Email.MailSettings())
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}
	log.Info("mailer configured", zap.String("driver", strings.ToLower(strings.TrimSpace(cfg.Email.Driver))))

	stack.Services, err = api.NewServices(stack.DB, cfg, mailer)
	if err != nil {
		return nil, err
	}

	if err := stack.Services.Content.EnsureDefaults(ctx); err != nil {
		return nil, fmt.Errorf("seed site content: %w", err)
	}

	if cfg.Maintenance.Enabled {
		stack.Cleaner = maintenance.NewCleaner(stack.DB, stack.Services.Sessions,
			maintenance.WithSessionSchedule(cfg.Maintenance.SessionSchedule),
			maintenance.WithTokenSchedule(cfg.Maintenance.TokenSchedule),
		)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	stack.Router, err = api.NewRouter(cfg, stack.Services)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown stops background jobs, runs a final purge and closes the database.
func (s *runtimeStack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var errs error
	if s.Cleaner != nil {
		select {
		case <-s.Cleaner.Stop().Done():
		case <-ctx.Done():
		}
		errs = multierr.Append(errs, s.Cleaner.RunOnce(ctx))
	}

	if s.DB != nil {
		errs = multierr.Append(errs, database.Close(s.DB))
	}
	return errs
}

// migrateAndSeed brings the schema up to date and writes the default site
// content without starting the server.
func migrateAndSeed(ctx context.Context, cfg *app.Config, log *zap.Logger) (err error) {
	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, database.Close(db))
	}()

	content, err := services.NewContentService(db, cfg.Content.ContentDefaults())
	if err != nil {
		return err
	}
	if err := content.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed site content: %w", err)
	}

	log.Info("migrations applied", zap.Int("models", len(database.Models())))
	return nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(dbCfg.Driver)))

	return db, nil
}
