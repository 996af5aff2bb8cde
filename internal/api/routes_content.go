package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/handlers"
)

type contentRouteDeps struct {
	ContentHandler      *handlers.ContentHandler
	PublicationHandler  *handlers.PublicationHandler
	ResearchWorkHandler *handlers.ResearchWorkHandler
	RequireAuth         gin.HandlerFunc
}

func registerContentRoutes(api *gin.RouterGroup, deps contentRouteDeps) {
	api.GET("/profile", deps.ContentHandler.GetProfile)
	api.PUT("/profile", deps.RequireAuth, deps.ContentHandler.UpdateProfile)
	api.GET("/social", deps.ContentHandler.GetSocial)
	api.PUT("/social", deps.RequireAuth, deps.ContentHandler.UpdateSocial)

	publications := api.Group("/publication")
	{
		publications.GET("", deps.PublicationHandler.List)
		publications.GET("/:id", deps.PublicationHandler.Get)
		publications.POST("", deps.RequireAuth, deps.PublicationHandler.Create)
		publications.PUT("/:id", deps.RequireAuth, deps.PublicationHandler.Update)
		publications.DELETE("/:id", deps.RequireAuth, deps.PublicationHandler.Delete)
	}

	works := api.Group("/research-work")
	{
		works.GET("", deps.ResearchWorkHandler.List)
		works.GET("/:id", deps.ResearchWorkHandler.Get)
		works.POST("", deps.RequireAuth, deps.ResearchWorkHandler.Create)
		works.PUT("/:id", deps.RequireAuth, deps.ResearchWorkHandler.Update)
		works.DELETE("/:id", deps.RequireAuth, deps.ResearchWorkHandler.Delete)
	}
}
