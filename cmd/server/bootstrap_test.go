package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/facultysite/internal/app"
	"github.com/charlesng35/facultysite/internal/models"
)

func newBootstrapConfig(t *testing.T) *app.Config {
	t.Helper()
	dir := t.TempDir()
	return &app.Config{
		Database: app.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(dir, "data", "site.sqlite"),
		},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{Secret: "bootstrap-secret", Issuer: "test", TTL: time.Minute},
		},
		Email:   app.EmailConfig{Driver: "log", From: "no-reply@example.com"},
		Uploads: app.UploadsConfig{Dir: filepath.Join(dir, "uploads"), URLPrefix: "/uploads"},
		Maintenance: app.MaintenanceConfig{
			Enabled:         true,
			TokenSchedule:   "@every 1h",
			SessionSchedule: "@every 1h",
		},
	}
}

func TestBootstrapRuntime(t *testing.T) {
	cfg := newBootstrapConfig(t)

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, stack.Cleaner)

	var profiles int64
	require.NoError(t, stack.DB.Model(&models.Profile{}).Count(&profiles).Error)
	require.EqualValues(t, 1, profiles)

	rec := httptest.NewRecorder()
	stack.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = os.Stat(cfg.Uploads.Dir)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, stack.Shutdown(ctx))
}

func TestBootstrapRuntimeRejectsUnknownMailDriver(t *testing.T) {
	cfg := newBootstrapConfig(t)
	cfg.Email.Driver = "carrier-pigeon"

	_, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "initialise mailer")
}

func TestBootstrapRuntimeWithoutMaintenance(t *testing.T) {
	cfg := newBootstrapConfig(t)
	cfg.Maintenance.Enabled = false

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, stack.Cleaner)
	require.NoError(t, stack.Shutdown(context.Background()))
}

func TestLoadApplicationConfigMissingPath(t *testing.T) {
	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

func TestMigrateAndSeed(t *testing.T) {
	cfg := newBootstrapConfig(t)

	require.NoError(t, migrateAndSeed(context.Background(), cfg, zap.NewNop()))
	// Running twice leaves a single profile row.
	require.NoError(t, migrateAndSeed(context.Background(), cfg, zap.NewNop()))

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Shutdown(context.Background()) })

	var profiles int64
	require.NoError(t, stack.DB.Model(&models.Profile{}).Count(&profiles).Error)
	require.EqualValues(t, 1, profiles)
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"-config", "/etc/facultysite", "-migrate"})
	require.NoError(t, err)
	require.Equal(t, "/etc/facultysite", opts.configPath)
	require.True(t, opts.migrateOnly)

	_, err = parseOptions([]string{"serve"})
	require.ErrorContains(t, err, "unexpected arguments")
}

func TestShutdownNilStack(t *testing.T) {
	var stack *runtimeStack
	require.NoError(t, stack.Shutdown(context.Background()))
}
