package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("account service: user not found")
	ErrDuplicateEmail     = errors.New("account service: email already registered")
	ErrInvalidCredentials = errors.New("account service: invalid credentials")
	ErrEmailNotVerified   = errors.New("account service: email not verified")

	// ErrVerificationEmailFailed and ErrResetEmailFailed mean the token was
	// persisted but its email could not be delivered.
	ErrVerificationEmailFailed = errors.New("account service: verification email not delivered")
	ErrResetEmailFailed        = errors.New("account service: password reset email not delivered")

	ErrInvalidToken = errors.New("token service: invalid token")
	ErrTokenExpired = errors.New("token service: token expired")

	ErrCourseNotFound       = errors.New("course service: course not found")
	ErrDuplicateCourse      = errors.New("course service: course code already exists in semester")
	ErrChapterNotFound      = errors.New("chapter service: chapter not found")
	ErrPublicationNotFound  = errors.New("publication service: publication not found")
	ErrResearchWorkNotFound = errors.New("research work service: research work not found")

	ErrNoFile          = errors.New("upload service: no file uploaded")
	ErrUnsupportedType = errors.New("upload service: unsupported file type")
)

// ValidationError reports input a service refused before touching the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FileTooLargeError carries the ceiling that applied to the rejected upload.
type FileTooLargeError struct {
	Limit int64
	Size  int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("File size exceeds %s limit", formatByteLimit(e.Limit))
}

// formatByteLimit renders whole megabytes as "5MB" and anything smaller or
// fractional in the largest unit that keeps it readable.
func formatByteLimit(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n >= mb && n%mb == 0:
		return fmt.Sprintf("%dMB", n/mb)
	case n >= mb:
		return strconv.FormatFloat(float64(n)/mb, 'f', 1, 64) + "MB"
	case n >= kb && n%kb == 0:
		return fmt.Sprintf("%dKB", n/kb)
	case n >= kb:
		return strconv.FormatFloat(float64(n)/kb, 'f', 1, 64) + "KB"
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "duplicate")
}
