package app

import (
	"fmt"
	"strings"

	"github.com/charlesng35/facultysite/pkg/crypto"
)

const (
	jwtSecretBytes  = 48
	defaultSiteName = "Faculty Site"
)

// Keys reported by ApplyRuntimeDefaults.
const (
	GeneratedJWTSecret = "auth.jwt.secret"
	DerivedBaseURL     = "app.base_url"
)

// ApplyRuntimeDefaults fills values the server cannot start without and
// normalises the ones used to build links. The returned map names every key
// that was filled in, never its value.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	applied := make(map[string]bool)

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		secret, err := crypto.GenerateToken(jwtSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.Auth.JWT.Secret = secret
		applied[GeneratedJWTSecret] = true
	}

	cfg.App.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.App.BaseURL), "/")
	if cfg.App.BaseURL == "" {
		port := cfg.Server.Port
		if port == 0 {
			port = 5000
		}
		cfg.App.BaseURL = fmt.Sprintf("http://localhost:%d", port)
		applied[DerivedBaseURL] = true
	}

	if strings.TrimSpace(cfg.App.SiteName) == "" {
		cfg.App.SiteName = defaultSiteName
	}

	return applied, nil
}
