package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/api"
	"github.com/charlesng35/facultysite/internal/app"
	sharedtestutil "github.com/charlesng35/facultysite/internal/database/testutil"
	"github.com/charlesng35/facultysite/internal/models"
	"github.com/charlesng35/facultysite/pkg/crypto"
	"github.com/charlesng35/facultysite/pkg/mail"
	"github.com/charlesng35/facultysite/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Config   *app.Config
	Services *api.Services
	Mailer   *mail.Recorder
	Router   *gin.Engine
}

// EnvOption adjusts the configuration before services are built.
type EnvOption func(*app.Config)

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())

	cfg := &app.Config{
		Server: app.ServerConfig{Metrics: true},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
			Session: app.SessionSettings{
				RefreshTTL:    24 * time.Hour,
				RefreshLength: 48,
			},
			Verification: app.TokenSettings{TTL: 24 * time.Hour},
			Reset:        app.TokenSettings{TTL: time.Hour},
			PasswordCost: bcrypt.MinCost,
		},
		App: app.SiteConfig{
			BaseURL:  "http://site.test",
			SiteName: "Test Faculty",
		},
		Uploads: app.UploadsConfig{
			Dir:        t.TempDir(),
			URLPrefix:  "/uploads",
			ImageLimit: 1 << 20,
			PDFLimit:   2 << 20,
		},
		RateLimit: app.RateLimitConfig{Requests: 100, Window: time.Minute},
		CORS:      app.CORSConfig{AllowedOrigins: []string{"http://site.test"}},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	recorder := &mail.Recorder{}
	svc, err := api.NewServices(db, cfg, recorder)
	require.NoError(t, err)

	router, err := api.NewRouter(cfg, svc)
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Config:   cfg,
		Services: svc,
		Mailer:   recorder,
		Router:   router,
	}
}

// CreateVerifiedUser inserts a verified account that can log in immediately.
func (e *Env) CreateVerifiedUser(password string) *models.User {
	e.T.Helper()

	hashed, err := crypto.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(e.T, err)

	user := &models.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "admin-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: hashed,
		IsVerified:   true,
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// LoginResult bundles the JSON response from POST /api/auth/login.
type LoginResult struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
	User         models.User `json:"user"`
}

// Login authenticates and returns the issued token pair.
func (e *Env) Login(email, password string) LoginResult {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.AccessToken)
	require.NotEmpty(e.T, result.RefreshToken)
	require.Greater(e.T, result.ExpiresIn, 0)
	require.Equal(e.T, email, result.User.Email)

	return result
}

// AdminToken creates a verified user, logs in and returns the access token.
func (e *Env) AdminToken() string {
	e.T.Helper()
	user := e.CreateVerifiedUser("correct-horse")
	return e.Login(user.Email, "correct-horse").AccessToken
}

var tokenPattern = regexp.MustCompile(`token=([^\s"<&]+)`)

// LastMailToken extracts the token query parameter from the most recent email.
func (e *Env) LastMailToken() string {
	e.T.Helper()

	msg, ok := e.Mailer.Last()
	require.True(e.T, ok, "no email was sent")

	match := tokenPattern.FindStringSubmatch(msg.Body)
	require.Len(e.T, match, 2, msg.Body)

	token, err := url.QueryUnescape(match[1])
	require.NoError(e.T, err)
	return token
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success    bool                 `json:"success"`
	Data       json.RawMessage      `json:"data"`
	Error      string               `json:"error"`
	Code       string               `json:"code"`
	Pagination *response.Pagination `json:"pagination"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	buf := bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.Do(req, token)
}

// Upload posts a single multipart file under the "file" field.
func (e *Env) Upload(filename, contentType string, content []byte, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(e.T, err)
	_, err = part.Write(content)
	require.NoError(e.T, err)
	require.NoError(e.T, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/upload", &body)
	require.NoError(e.T, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.Do(req, token)
}

// Do serves req, adding a bearer token when provided.
func (e *Env) Do(req *http.Request, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
