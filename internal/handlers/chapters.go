package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/response"
)

// ChapterHandler serves chapter CRUD.
type ChapterHandler struct {
	chapters *services.ChapterService
}

func NewChapterHandler(chapters *services.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapters: chapters}
}

type pdfFileRequest struct {
	FileName   string     `json:"fileName"`
	FileURL    string     `json:"fileUrl"`
	FileSize   *int64     `json:"fileSize" validate:"omitempty,gte=0"`
	UploadedAt *time.Time `json:"uploadedAt"`
}

type createChapterRequest struct {
	ChapterName string           `json:"chapterName" validate:"omitempty,max=200"`
	CourseCode  string           `json:"courseCode"`
	Semester    string           `json:"semester"`
	PdfFiles    []pdfFileRequest `json:"pdfFiles" validate:"dive"`
	Order       int              `json:"order"`
}

type updateChapterRequest struct {
	ChapterName *string           `json:"chapterName" validate:"omitempty,max=200"`
	PdfFiles    *[]pdfFileRequest `json:"pdfFiles" validate:"omitempty,dive"`
	Order       *int              `json:"order"`
}

// GET /api/chapter
func (h *ChapterHandler) List(c *gin.Context) {
	chapters, err := h.chapters.List(requestContext(c), courseFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, chapters)
}

// GET /api/chapter/:id
func (h *ChapterHandler) Get(c *gin.Context) {
	chapter, err := h.chapters.Get(requestContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, chapter)
}

// POST /api/chapter
func (h *ChapterHandler) Create(c *gin.Context) {
	var req createChapterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	chapter, err := h.chapters.Create(requestContext(c), services.CreateChapterInput{
		ChapterName: req.ChapterName,
		CourseCode:  req.CourseCode,
		Semester:    req.Semester,
		PdfFiles:    pdfFileInputs(req.PdfFiles),
		Order:       req.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, chapter)
}

// PUT /api/chapter/:id
func (h *ChapterHandler) Update(c *gin.Context) {
	var req updateChapterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.UpdateChapterInput{
		ChapterName: req.ChapterName,
		Order:       req.Order,
	}
	if req.PdfFiles != nil {
		files := pdfFileInputs(*req.PdfFiles)
		input.PdfFiles = &files
	}

	chapter, err := h.chapters.Update(requestContext(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, chapter)
}

// DELETE /api/chapter/:id
func (h *ChapterHandler) Delete(c *gin.Context) {
	if err := h.chapters.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Chapter deleted successfully"})
}

func pdfFileInputs(files []pdfFileRequest) []services.PdfFileInput {
	inputs := make([]services.PdfFileInput, 0, len(files))
	for _, file := range files {
		inputs = append(inputs, services.PdfFileInput{
			FileName:   file.FileName,
			FileURL:    file.FileURL,
			FileSize:   file.FileSize,
			UploadedAt: file.UploadedAt,
		})
	}
	return inputs
}
