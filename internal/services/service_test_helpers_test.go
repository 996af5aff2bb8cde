package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/database/testutil"
	"github.com/charlesng35/facultysite/internal/models"
	"github.com/charlesng35/facultysite/pkg/crypto"
)

type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func openServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
}

func newTestJWT(t *testing.T, clock *testClock) *auth.JWTService {
	t.Helper()

	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:         "services-test-secret",
		Issuer:         "facultysite-test",
		AccessTokenTTL: time.Hour,
		Clock:          clock.Now,
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, email, password string, verified bool) *models.User {
	t.Helper()

	hashed, err := crypto.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        email,
		PasswordHash: hashed,
		IsVerified:   verified,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func requireInvalidID(t *testing.T, err error) {
	t.Helper()
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "Invalid ID format", validation.Message)
}
