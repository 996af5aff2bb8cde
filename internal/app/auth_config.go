package app

import (
	"time"

	"github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/services"
)

const defaultRefreshLength = 48

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// SessionServiceConfig converts AuthConfig into SessionService parameters.
func (c AuthConfig) SessionServiceConfig() auth.SessionConfig {
	ttl := c.Session.RefreshTTL
	if ttl <= 0 {
		ttl = auth.DefaultRefreshTokenTTL
	}

	length := c.Session.RefreshLength
	if length <= 0 {
		length = defaultRefreshLength
	}

	return auth.SessionConfig{
		RefreshTokenTTL: ttl,
		RefreshLength:   length,
	}
}

// TokenOptions converts the verification and reset lifetimes into TokenService options.
func (c AuthConfig) TokenOptions() []services.TokenOption {
	return []services.TokenOption{
		services.WithTokenTTL(services.TokenKindEmailVerification, orDefault(c.Verification.TTL, services.DefaultVerificationTTL)),
		services.WithTokenTTL(services.TokenKindPasswordReset, orDefault(c.Reset.TTL, services.DefaultResetTTL)),
	}
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
