package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/response"
)

// ResearchWorkHandler serves ordered research listing CRUD.
type ResearchWorkHandler struct {
	works *services.ResearchWorkService
}

func NewResearchWorkHandler(works *services.ResearchWorkService) *ResearchWorkHandler {
	return &ResearchWorkHandler{works: works}
}

type researchWorkRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Image       *string `json:"image" validate:"omitempty,max=500"`
	Year        *string `json:"year" validate:"omitempty,max=10"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Status      *string `json:"status"`
	Order       *int    `json:"order"`
}

func (r researchWorkRequest) input() services.ResearchWorkInput {
	return services.ResearchWorkInput{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Year:        r.Year,
		Category:    r.Category,
		Status:      r.Status,
		Order:       r.Order,
	}
}

// GET /api/research-work
func (h *ResearchWorkHandler) List(c *gin.Context) {
	page, err := h.works.List(requestContext(c), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, page.Items, response.NewPagination(page.Total, page.Page, page.Limit))
}

// GET /api/research-work/:id
func (h *ResearchWorkHandler) Get(c *gin.Context) {
	work, err := h.works.Get(requestContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, work)
}

// POST /api/research-work
func (h *ResearchWorkHandler) Create(c *gin.Context) {
	var req researchWorkRequest
	if !bindAndValidate(c, &req) {
		return
	}

	work, err := h.works.Create(requestContext(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, work)
}

// PUT /api/research-work/:id
func (h *ResearchWorkHandler) Update(c *gin.Context) {
	var req researchWorkRequest
	if !bindAndValidate(c, &req) {
		return
	}

	work, err := h.works.Update(requestContext(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, work)
}

// DELETE /api/research-work/:id
func (h *ResearchWorkHandler) Delete(c *gin.Context) {
	if err := h.works.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Research work deleted successfully"})
}
