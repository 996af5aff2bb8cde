package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/response"
)

// ResourceHandler serves the public semester → course → chapter tree.
type ResourceHandler struct {
	resources *services.ResourceService
}

func NewResourceHandler(resources *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resources: resources}
}

// GET /api/resources
func (h *ResourceHandler) Tree(c *gin.Context) {
	tree, err := h.resources.Tree(requestContext(c), c.Query("semester"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tree)
}

// GET /api/resources/semesters
func (h *ResourceHandler) Semesters(c *gin.Context) {
	semesters, err := h.resources.Semesters(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, semesters)
}
