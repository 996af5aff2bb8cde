package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/handlers"
)

func registerHealthRoutes(api *gin.RouterGroup, svc *Services) {
	api.GET("/health", handlers.Health(svc.DB))
}
