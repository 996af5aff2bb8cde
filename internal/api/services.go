package api

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/app"
	iauth "github.com/charlesng35/facultysite/internal/auth"
	"github.com/charlesng35/facultysite/internal/cache"
	"github.com/charlesng35/facultysite/internal/middleware"
	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/mail"
)

// Services bundles the long-lived collaborators mounted by the router.
type Services struct {
	DB            *gorm.DB
	JWT           *iauth.JWTService
	Sessions      *iauth.SessionService
	Tokens        *services.TokenService
	Accounts      *services.AccountService
	Uploads       *services.UploadService
	Courses       *services.CourseService
	Chapters      *services.ChapterService
	Resources     *services.ResourceService
	Content       *services.ContentService
	Publications  *services.PublicationService
	ResearchWorks *services.ResearchWorkService
	RateStore     middleware.RateStore
	UploadDir     string
}

// NewServices constructs every domain service from cfg. The mailer is passed in
// so callers can substitute a recorder.
func NewServices(db *gorm.DB, cfg *app.Config, mailer mail.Mailer) (*Services, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer must be provided")
	}

	svc := &Services{DB: db}
	var err error

	if svc.RateStore, err = newRateStore(db, cfg.RateLimit.Store); err != nil {
		return nil, err
	}

	if svc.JWT, err = iauth.NewJWTService(cfg.Auth.JWTServiceConfig()); err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}
	if svc.Sessions, err = iauth.NewSessionService(db, svc.JWT, cfg.Auth.SessionServiceConfig()); err != nil {
		return nil, fmt.Errorf("initialise session service: %w", err)
	}
	if svc.Tokens, err = services.NewTokenService(db, svc.JWT, cfg.Auth.TokenOptions()...); err != nil {
		return nil, fmt.Errorf("initialise token service: %w", err)
	}

	svc.Accounts, err = services.NewAccountService(db, svc.Tokens, svc.Sessions, mailer, services.AccountConfig{
		BaseURL:      cfg.App.BaseURL,
		SiteName:     cfg.App.SiteName,
		PasswordCost: cfg.Auth.PasswordCost,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise account service: %w", err)
	}

	store, err := services.NewFilesystemUploadStore(cfg.Uploads.Dir)
	if err != nil {
		return nil, fmt.Errorf("initialise upload store: %w", err)
	}
	svc.UploadDir = store.Root()
	if svc.Uploads, err = services.NewUploadService(store, cfg.Uploads.UploadServiceConfig()); err != nil {
		return nil, fmt.Errorf("initialise upload service: %w", err)
	}

	if svc.Courses, err = services.NewCourseService(db); err != nil {
		return nil, fmt.Errorf("initialise course service: %w", err)
	}
	if svc.Chapters, err = services.NewChapterService(db); err != nil {
		return nil, fmt.Errorf("initialise chapter service: %w", err)
	}
	if svc.Resources, err = services.NewResourceService(db); err != nil {
		return nil, fmt.Errorf("initialise resource service: %w", err)
	}
	if svc.Content, err = services.NewContentService(db, cfg.Content.ContentDefaults()); err != nil {
		return nil, fmt.Errorf("initialise content service: %w", err)
	}
	if svc.Publications, err = services.NewPublicationService(db); err != nil {
		return nil, fmt.Errorf("initialise publication service: %w", err)
	}
	if svc.ResearchWorks, err = services.NewResearchWorkService(db); err != nil {
		return nil, fmt.Errorf("initialise research work service: %w", err)
	}

	return svc, nil
}

func newRateStore(db *gorm.DB, kind string) (middleware.RateStore, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "memory":
		return middleware.NewMemoryRateStore(), nil
	case "database", "db":
		return cache.NewDatabaseStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit store %q", kind)
	}
}
