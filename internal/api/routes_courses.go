package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/handlers"
)

type courseRouteDeps struct {
	CourseHandler   *handlers.CourseHandler
	ChapterHandler  *handlers.ChapterHandler
	ResourceHandler *handlers.ResourceHandler
	RequireAuth     gin.HandlerFunc
}

func registerCourseRoutes(api *gin.RouterGroup, deps courseRouteDeps) {
	courses := api.Group("/course")
	{
		courses.GET("", deps.CourseHandler.List)
		courses.GET("/:id", deps.CourseHandler.Get)
		courses.POST("", deps.RequireAuth, deps.CourseHandler.Create)
		courses.PUT("/:id", deps.RequireAuth, deps.CourseHandler.Update)
		courses.DELETE("/:id", deps.RequireAuth, deps.CourseHandler.Delete)
	}

	chapters := api.Group("/chapter")
	{
		chapters.GET("", deps.ChapterHandler.List)
		chapters.GET("/:id", deps.ChapterHandler.Get)
		chapters.POST("", deps.RequireAuth, deps.ChapterHandler.Create)
		chapters.PUT("/:id", deps.RequireAuth, deps.ChapterHandler.Update)
		chapters.DELETE("/:id", deps.RequireAuth, deps.ChapterHandler.Delete)
	}

	resources := api.Group("/resources")
	{
		resources.GET("", deps.ResourceHandler.Tree)
		resources.GET("/semesters", deps.ResourceHandler.Semesters)
	}
}
