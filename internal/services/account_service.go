package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/models"
	"github.com/charlesng35/facultysite/pkg/crypto"
	"github.com/charlesng35/facultysite/pkg/logger"
	"github.com/charlesng35/facultysite/pkg/mail"
	"github.com/charlesng35/facultysite/pkg/metrics"
)

// MinPasswordLength is the shortest password accepted at registration and reset.
const MinPasswordLength = 6

// AccountConfig carries the public facing values used in emailed links.
type AccountConfig struct {
	BaseURL      string
	SiteName     string
	PasswordCost int
	Clock        func() time.Time
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginResult is returned after a successful sign in.
type LoginResult struct {
	Tokens  auth.TokenPair
	Session *models.Session
	User    *models.User
}

// AccountService implements registration, email verification, password
// recovery and dashboard sign in.
type AccountService struct {
	db       *gorm.DB
	tokens   *TokenService
	sessions *auth.SessionService
	mailer   mail.Mailer
	cfg      AccountConfig
	now      func() time.Time
}

// NewAccountService wires the account flows to their collaborators.
func NewAccountService(db *gorm.DB, tokens *TokenService, sessions *auth.SessionService, mailer mail.Mailer, cfg AccountConfig) (*AccountService, error) {
	if db == nil {
		return nil, errors.New("account service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("account service: token service is required")
	}
	if sessions == nil {
		return nil, errors.New("account service: session service is required")
	}
	if mailer == nil {
		return nil, errors.New("account service: mailer is required")
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.SiteName == "" {
		cfg.SiteName = "Faculty Site"
	}
	if cfg.PasswordCost == 0 {
		cfg.PasswordCost = crypto.PasswordCost
	}
	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &AccountService{
		db:       db,
		tokens:   tokens,
		sessions: sessions,
		mailer:   mailer,
		cfg:      cfg,
		now:      now,
	}, nil
}

// Register creates an unverified user and emails a verification link. When the
// email cannot be delivered the user is kept and ErrVerificationEmailFailed is
// returned alongside it.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ctx = ensuredContext(ctx)

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := models.NormalizeEmail(input.Email)
	if firstName == "" || lastName == "" || email == "" || input.Password == "" {
		return nil, newValidationError("All fields are required")
	}
	if !isEmail(email) {
		return nil, newValidationError("Please provide a valid email address")
	}
	if len(input.Password) < MinPasswordLength {
		return nil, newValidationError("Password must be at least %d characters long", MinPasswordLength)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("account service: check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateEmail
	}

	hashed, err := crypto.HashPasswordWithCost(input.Password, s.cfg.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("account service: hash password: %w", err)
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("account service: create user: %w", err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// VerifyEmail consumes a verification token and marks its user verified.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return newValidationError("Token is required")
	}

	_, err := s.tokens.Redeem(ctx, TokenKindEmailVerification, token, func(tx *gorm.DB, redeemed RedeemedToken) error {
		res := tx.Model(&models.User{}).Where("id = ?", redeemed.UserID).Update("is_verified", true)
		if res.Error != nil {
			return fmt.Errorf("account service: mark verified: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}
		return nil
	})
	return err
}

// ResendVerification emails a fresh verification link. Unknown and already
// verified addresses are ignored so callers cannot probe for accounts.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	ctx = ensuredContext(ctx)
	email = models.NormalizeEmail(email)
	if email == "" {
		return newValidationError("Email is required")
	}

	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}
	return s.sendVerification(ctx, user)
}

// ForgotPassword emails a password reset link when the address belongs to a
// user. Unknown addresses succeed silently.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	ctx = ensuredContext(ctx)
	email = models.NormalizeEmail(email)
	if email == "" {
		return newValidationError("Email is required")
	}

	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	issued, err := s.tokens.Issue(ctx, TokenKindPasswordReset, user.Email, user.ID)
	if err != nil {
		return err
	}

	link := s.link("/reset-password", issued.Token)
	if err := s.deliver(ctx, mail.TemplatePasswordReset, user, "Password Reset Request - "+s.cfg.SiteName, link, s.tokens.TTL(TokenKindPasswordReset)); err != nil {
		return fmt.Errorf("%w: %v", ErrResetEmailFailed, err)
	}
	return nil
}

// ResetPassword consumes a reset token, replaces the password hash and revokes
// every session of the user.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" || newPassword == "" {
		return newValidationError("Token and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return newValidationError("Password must be at least %d characters long", MinPasswordLength)
	}

	hashed, err := crypto.HashPasswordWithCost(newPassword, s.cfg.PasswordCost)
	if err != nil {
		return fmt.Errorf("account service: hash password: %w", err)
	}

	_, err = s.tokens.Redeem(ctx, TokenKindPasswordReset, token, func(tx *gorm.DB, redeemed RedeemedToken) error {
		res := tx.Model(&models.User{}).Where("id = ?", redeemed.UserID).Update("password_hash", hashed)
		if res.Error != nil {
			return fmt.Errorf("account service: update password: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}
		return auth.RevokeUserSessions(tx, redeemed.UserID, s.now())
	})
	return err
}

// Login verifies credentials and opens a dashboard session.
func (s *AccountService) Login(ctx context.Context, email, password string, meta auth.SessionMetadata) (*LoginResult, error) {
	ctx = ensuredContext(ctx)
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, newValidationError("Email and password are required")
	}

	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !crypto.VerifyPassword(user.PasswordHash, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		metrics.AuthAttempts.WithLabelValues("unverified").Inc()
		return nil, ErrEmailNotVerified
	}

	tokens, session, err := s.sessions.CreateSession(ctx, user.ID, meta)
	if err != nil {
		return nil, fmt.Errorf("account service: create session: %w", err)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(user).Update("last_login_at", now).Error; err != nil {
		logger.WithModule("accounts").Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &LoginResult{Tokens: tokens, Session: session, User: user}, nil
}

// Refresh rotates a refresh token.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	tokens, _, err := s.sessions.RefreshSession(ensuredContext(ctx), refreshToken)
	return tokens, err
}

// Logout revokes the session behind the caller's access token.
func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.RevokeSession(ensuredContext(ctx), sessionID)
}

// Me loads the user behind an authenticated request.
func (s *AccountService) Me(ctx context.Context, userID string) (*models.User, error) {
	if !validID(userID) {
		return nil, ErrUserNotFound
	}

	var user models.User
	err := s.db.WithContext(ensuredContext(ctx)).Take(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: load user: %w", err)
	}
	return &user, nil
}

func (s *AccountService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("account service: find user: %w", err)
	}
	return &user, nil
}

func (s *AccountService) sendVerification(ctx context.Context, user *models.User) error {
	issued, err := s.tokens.Issue(ctx, TokenKindEmailVerification, user.Email, user.ID)
	if err != nil {
		return err
	}

	link := s.link("/verify-email", issued.Token)
	if err := s.deliver(ctx, mail.TemplateVerifyEmail, user, "Verify Your Email - "+s.cfg.SiteName, link, s.tokens.TTL(TokenKindEmailVerification)); err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationEmailFailed, err)
	}
	return nil
}

func (s *AccountService) deliver(ctx context.Context, template string, user *models.User, subject, link string, ttl time.Duration) error {
	text, html, err := mail.Render(template, mail.TemplateData{
		SiteName:  s.cfg.SiteName,
		FirstName: user.FirstName,
		Link:      link,
		ExpiresIn: humanizeDuration(ttl),
	})
	if err != nil {
		metrics.EmailDeliveries.WithLabelValues(template, "error").Inc()
		return err
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:       []string{user.Email},
		Subject:  subject,
		Body:     text,
		HTMLBody: html,
	})
	if err != nil {
		metrics.EmailDeliveries.WithLabelValues(template, "error").Inc()
		logger.WithModule("accounts").Error("email delivery failed",
			zap.String("template", template),
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return err
	}

	metrics.EmailDeliveries.WithLabelValues(template, "sent").Inc()
	return nil
}

func (s *AccountService) link(path, token string) string {
	return s.cfg.BaseURL + path + "?token=" + url.QueryEscape(token)
}

func humanizeDuration(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	default:
		return plural(int64(d.Round(time.Minute)/time.Minute), "minute")
	}
}
