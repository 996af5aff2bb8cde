package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/errors"
	"github.com/charlesng35/facultysite/pkg/response"
)

// multipartOverhead is the slack allowed on top of the largest file limit for
// the multipart envelope itself.
const multipartOverhead = 1 << 20

// UploadHandler accepts a single multipart file under the "file" field.
type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxLimit()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			response.Error(c, errors.ErrFileTooLarge)
			return
		}
		respondError(c, services.ErrNoFile)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, errors.Wrap(err, "Failed to upload file"))
		return
	}
	defer file.Close()

	result, err := h.uploads.Upload(requestContext(c), services.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
