package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/response"
)

// PublicationHandler serves ordered publication CRUD.
type PublicationHandler struct {
	publications *services.PublicationService
}

func NewPublicationHandler(publications *services.PublicationService) *PublicationHandler {
	return &PublicationHandler{publications: publications}
}

type publicationRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Authors   *string `json:"authors"`
	Journal   *string `json:"journal" validate:"omitempty,max=300"`
	Year      *string `json:"year" validate:"omitempty,max=10"`
	Citations *int    `json:"citations" validate:"omitempty,gte=0"`
	DOI       *string `json:"doi" validate:"omitempty,max=300"`
	Image     *string `json:"image" validate:"omitempty,max=500"`
	Order     *int    `json:"order"`
}

func (r publicationRequest) input() services.PublicationInput {
	return services.PublicationInput{
		Title:     r.Title,
		Authors:   r.Authors,
		Journal:   r.Journal,
		Year:      r.Year,
		Citations: r.Citations,
		DOI:       r.DOI,
		Image:     r.Image,
		Order:     r.Order,
	}
}

// GET /api/publication
func (h *PublicationHandler) List(c *gin.Context) {
	page, err := h.publications.List(requestContext(c), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, page.Items, response.NewPagination(page.Total, page.Page, page.Limit))
}

// GET /api/publication/:id
func (h *PublicationHandler) Get(c *gin.Context) {
	publication, err := h.publications.Get(requestContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, publication)
}

// POST /api/publication
func (h *PublicationHandler) Create(c *gin.Context) {
	var req publicationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	publication, err := h.publications.Create(requestContext(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, publication)
}

// PUT /api/publication/:id
func (h *PublicationHandler) Update(c *gin.Context) {
	var req publicationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	publication, err := h.publications.Update(requestContext(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, publication)
}

// DELETE /api/publication/:id
func (h *PublicationHandler) Delete(c *gin.Context) {
	if err := h.publications.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Publication deleted successfully"})
}

func pageRequest(c *gin.Context) services.PageRequest {
	return services.PageRequest{
		Page:  parseIntQuery(c, "page", services.DefaultPage),
		Limit: parseIntQuery(c, "limit", services.DefaultLimit),
	}
}
