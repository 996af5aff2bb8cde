package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/models"
	"github.com/charlesng35/facultysite/pkg/crypto"
	"github.com/charlesng35/facultysite/pkg/metrics"
)

// TokenKind names the flow an emailed token belongs to.
type TokenKind string

const (
	TokenKindEmailVerification TokenKind = "email_verification"
	TokenKindPasswordReset     TokenKind = "password_reset"
)

const (
	DefaultVerificationTTL = 24 * time.Hour
	DefaultResetTTL        = time.Hour
)

func (k TokenKind) table() (string, error) {
	switch k {
	case TokenKindEmailVerification:
		return models.EmailVerificationToken{}.TableName(), nil
	case TokenKindPasswordReset:
		return models.PasswordResetToken{}.TableName(), nil
	default:
		return "", fmt.Errorf("token service: unknown token kind %q", string(k))
	}
}

// IssuedToken is a freshly signed token and its server-side expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// RedeemedToken identifies whose token was consumed.
type RedeemedToken struct {
	Email  string
	UserID string
}

// RedeemFunc applies the side effect of a redemption inside the transaction
// that deletes the token record. Returning an error keeps the record.
type RedeemFunc func(tx *gorm.DB, token RedeemedToken) error

// TokenOption customises the TokenService.
type TokenOption func(*TokenService)

// WithTokenTTL overrides the lifetime of one token kind.
func WithTokenTTL(kind TokenKind, ttl time.Duration) TokenOption {
	return func(s *TokenService) {
		if ttl > 0 {
			s.ttl[kind] = ttl
		}
	}
}

// WithTokenClock injects a custom time source.
func WithTokenClock(clock func() time.Time) TokenOption {
	return func(s *TokenService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// TokenService issues and redeems single-use tokens for email verification
// and password reset. A token is a signed JWT plus a persisted record keyed by
// the token's digest; deleting the record revokes the token.
type TokenService struct {
	db  *gorm.DB
	jwt *auth.JWTService
	ttl map[TokenKind]time.Duration
	now func() time.Time
}

// NewTokenService constructs a token service with the provided dependencies.
func NewTokenService(db *gorm.DB, jwtService *auth.JWTService, opts ...TokenOption) (*TokenService, error) {
	if db == nil {
		return nil, errors.New("token service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("token service: jwt service is required")
	}

	svc := &TokenService{
		db:  db,
		jwt: jwtService,
		ttl: map[TokenKind]time.Duration{
			TokenKindEmailVerification: DefaultVerificationTTL,
			TokenKindPasswordReset:     DefaultResetTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// TTL reports the lifetime of tokens of the given kind.
func (s *TokenService) TTL(kind TokenKind) time.Duration {
	return s.ttl[kind]
}

// Issue signs a new token for the user and persists its record. Earlier live
// tokens of the same kind for that user are revoked.
func (s *TokenService) Issue(ctx context.Context, kind TokenKind, email, userID string) (IssuedToken, error) {
	ctx = ensuredContext(ctx)
	table, err := kind.table()
	if err != nil {
		return IssuedToken{}, err
	}

	userID = strings.TrimSpace(userID)
	email = models.NormalizeEmail(email)
	if userID == "" {
		return IssuedToken{}, errors.New("token service: user id is required")
	}
	if email == "" {
		return IssuedToken{}, errors.New("token service: email is required")
	}

	token, expiresAt, err := s.jwt.GenerateActionToken(auth.ActionTokenInput{
		Purpose: string(kind),
		UserID:  userID,
		Email:   email,
		TTL:     s.ttl[kind],
	})
	if err != nil {
		metrics.TokenOperations.WithLabelValues(string(kind), "issue", "error").Inc()
		return IssuedToken{}, fmt.Errorf("token service: sign token: %w", err)
	}

	record := models.TokenRecord{
		TokenHash: crypto.HashToken(token),
		Email:     email,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Where("user_id = ?", userID).Delete(&models.TokenRecord{}).Error; err != nil {
			return fmt.Errorf("revoke previous tokens: %w", err)
		}
		if err := tx.Table(table).Create(&record).Error; err != nil {
			return fmt.Errorf("create token record: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.TokenOperations.WithLabelValues(string(kind), "issue", "error").Inc()
		return IssuedToken{}, fmt.Errorf("token service: %w", err)
	}

	metrics.TokenOperations.WithLabelValues(string(kind), "issue", "ok").Inc()
	return IssuedToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Redeem consumes a token. It fails with ErrInvalidToken when the signature
// is bad or no record exists, and with ErrTokenExpired (after deleting the
// record) when the token outlived its expiry. On success apply runs in the same
// transaction that deletes the record, so a token value is honoured at most once.
func (s *TokenService) Redeem(ctx context.Context, kind TokenKind, token string, apply RedeemFunc) (RedeemedToken, error) {
	ctx = ensuredContext(ctx)
	table, err := kind.table()
	if err != nil {
		return RedeemedToken{}, err
	}

	result, err := s.redeem(ctx, kind, table, strings.TrimSpace(token), apply)
	switch {
	case err == nil:
		metrics.TokenOperations.WithLabelValues(string(kind), "redeem", "ok").Inc()
	case errors.Is(err, ErrInvalidToken):
		metrics.TokenOperations.WithLabelValues(string(kind), "redeem", "invalid").Inc()
	case errors.Is(err, ErrTokenExpired):
		metrics.TokenOperations.WithLabelValues(string(kind), "redeem", "expired").Inc()
	default:
		metrics.TokenOperations.WithLabelValues(string(kind), "redeem", "error").Inc()
	}
	return result, err
}

func (s *TokenService) redeem(ctx context.Context, kind TokenKind, table, token string, apply RedeemFunc) (RedeemedToken, error) {
	if token == "" {
		return RedeemedToken{}, ErrInvalidToken
	}

	claims, err := s.jwt.ParseActionToken(string(kind), token)
	signatureExpired := false
	if err != nil {
		if claims == nil || !errors.Is(err, jwt.ErrTokenExpired) {
			return RedeemedToken{}, ErrInvalidToken
		}
		signatureExpired = true
	}

	var record models.TokenRecord
	err = s.db.WithContext(ctx).Table(table).Where("token_hash = ?", crypto.HashToken(token)).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RedeemedToken{}, ErrInvalidToken
	}
	if err != nil {
		return RedeemedToken{}, fmt.Errorf("token service: find token: %w", err)
	}

	if signatureExpired || record.Expired(s.now()) {
		if err := s.db.WithContext(ctx).Table(table).Where("id = ?", record.ID).Delete(&models.TokenRecord{}).Error; err != nil {
			return RedeemedToken{}, fmt.Errorf("token service: delete expired token: %w", err)
		}
		return RedeemedToken{}, ErrTokenExpired
	}

	if record.UserID != claims.UserID {
		return RedeemedToken{}, ErrInvalidToken
	}

	redeemed := RedeemedToken{Email: claims.Email, UserID: claims.UserID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Table(table).Where("id = ?", record.ID).Delete(&models.TokenRecord{})
		if res.Error != nil {
			return fmt.Errorf("token service: consume token: %w", res.Error)
		}
		// Another request consumed it first.
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}
		if apply != nil {
			return apply(tx, redeemed)
		}
		return nil
	})
	if err != nil {
		return RedeemedToken{}, err
	}
	return redeemed, nil
}

// PurgeExpiredTokens deletes expired records of every kind and reports how
// many rows each table lost.
func PurgeExpiredTokens(ctx context.Context, db *gorm.DB, now time.Time) (map[TokenKind]int64, error) {
	if db == nil {
		return nil, errors.New("token purge: db is required")
	}
	ctx = ensuredContext(ctx)

	removed := make(map[TokenKind]int64, 2)
	for _, kind := range []TokenKind{TokenKindEmailVerification, TokenKindPasswordReset} {
		table, _ := kind.table()
		res := db.WithContext(ctx).Table(table).Where("expires_at <= ?", now.UTC()).Delete(&models.TokenRecord{})
		if res.Error != nil {
			return removed, fmt.Errorf("token purge: %s: %w", table, res.Error)
		}
		removed[kind] = res.RowsAffected
	}
	return removed, nil
}
