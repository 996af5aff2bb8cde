package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlesng35/facultysite/internal/app"
	"github.com/charlesng35/facultysite/internal/handlers"
	"github.com/charlesng35/facultysite/internal/middleware"
)

// NewRouter builds the Gin engine, wires middleware and registers every route.
func NewRouter(cfg *app.Config, svc *Services) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if svc == nil {
		return nil, fmt.Errorf("services must be provided")
	}
	if svc.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if svc.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if svc.Sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if svc.Accounts == nil || svc.Uploads == nil {
		return nil, fmt.Errorf("account and upload services must be provided")
	}

	rateStore := svc.RateStore
	if rateStore == nil {
		rateStore = middleware.NewMemoryRateStore()
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	if cfg.Server.Metrics {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins...))

	api := r.Group("/api")
	requireAuth := middleware.Auth(svc.JWT, svc.Sessions)
	limited := middleware.RateLimit(rateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	registerHealthRoutes(api, svc)

	registerAuthRoutes(api, authRouteDeps{
		AuthHandler: handlers.NewAuthHandler(svc.Accounts),
		RequireAuth: requireAuth,
		RateLimited: limited,
	})

	api.POST("/upload", requireAuth, handlers.NewUploadHandler(svc.Uploads).Upload)

	registerCourseRoutes(api, courseRouteDeps{
		CourseHandler:   handlers.NewCourseHandler(svc.Courses),
		ChapterHandler:  handlers.NewChapterHandler(svc.Chapters),
		ResourceHandler: handlers.NewResourceHandler(svc.Resources),
		RequireAuth:     requireAuth,
	})

	registerContentRoutes(api, contentRouteDeps{
		ContentHandler:      handlers.NewContentHandler(svc.Content),
		PublicationHandler:  handlers.NewPublicationHandler(svc.Publications),
		ResearchWorkHandler: handlers.NewResearchWorkHandler(svc.ResearchWorks),
		RequireAuth:         requireAuth,
	})

	// Uploaded files
	if svc.UploadDir != "" {
		prefix := "/" + strings.Trim(strings.TrimSpace(cfg.Uploads.URLPrefix), "/")
		if prefix == "/" {
			prefix = "/uploads"
		}
		r.Static(prefix, svc.UploadDir)
	}

	// Metrics endpoint
	if cfg.Server.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
