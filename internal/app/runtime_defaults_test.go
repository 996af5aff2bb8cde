package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyRuntimeDefaultsFillsMissingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 8080

	applied, err := ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Auth.JWT.Secret)
	require.True(t, applied[GeneratedJWTSecret])
	require.True(t, applied[DerivedBaseURL])
	require.Equal(t, "http://localhost:8080", cfg.App.BaseURL)
	require.Equal(t, "Faculty Site", cfg.App.SiteName)
}

func TestApplyRuntimeDefaultsPreservesConfiguredValues(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.JWT.Secret = strings.Repeat("a", 10)
	cfg.App.SiteName = "Dr. Example"
	cfg.App.BaseURL = " https://faculty.example.edu/ "

	applied, err := ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)
	require.Empty(t, applied)
	require.Equal(t, strings.Repeat("a", 10), cfg.Auth.JWT.Secret)
	require.Equal(t, "Dr. Example", cfg.App.SiteName)
	require.Equal(t, "https://faculty.example.edu", cfg.App.BaseURL)
}

func TestApplyRuntimeDefaultsNilConfig(t *testing.T) {
	_, err := ApplyRuntimeDefaults(nil)
	require.ErrorContains(t, err, "config is nil")
}
