package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/models"
	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/response"
)

// ContentHandler serves the profile and social singletons.
type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type educationRequest struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Field       string `json:"field"`
}

type profileRequest struct {
	TeacherName     *string             `json:"teacherName" validate:"omitempty,max=200"`
	Title           *string             `json:"title" validate:"omitempty,max=200"`
	Department      *string             `json:"department" validate:"omitempty,max=200"`
	University      *string             `json:"university" validate:"omitempty,max=200"`
	UniversityFull  *string             `json:"universityFull" validate:"omitempty,max=300"`
	Bio             *string             `json:"bio"`
	DetailedBio     *string             `json:"detailedBio"`
	Education       *[]educationRequest `json:"education"`
	Specializations *[]string           `json:"specializations"`
}

type socialRequest struct {
	Github       *string `json:"github" validate:"omitempty,max=300"`
	Linkedin     *string `json:"linkedin" validate:"omitempty,max=300"`
	Researchgate *string `json:"researchgate" validate:"omitempty,max=300"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone" validate:"omitempty,max=64"`
}

// GET /api/profile
func (h *ContentHandler) GetProfile(c *gin.Context) {
	profile, err := h.content.Profile(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// PUT /api/profile
func (h *ContentHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.ProfileInput{
		TeacherName:     req.TeacherName,
		Title:           req.Title,
		Department:      req.Department,
		University:      req.University,
		UniversityFull:  req.UniversityFull,
		Bio:             req.Bio,
		DetailedBio:     req.DetailedBio,
		Specializations: req.Specializations,
	}
	if req.Education != nil {
		education := make([]models.Education, 0, len(*req.Education))
		for _, entry := range *req.Education {
			education = append(education, models.Education{
				Degree:      entry.Degree,
				Institution: entry.Institution,
				Field:       entry.Field,
			})
		}
		input.Education = &education
	}

	profile, err := h.content.UpdateProfile(requestContext(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// GET /api/social
func (h *ContentHandler) GetSocial(c *gin.Context) {
	social, err := h.content.Social(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, social)
}

// PUT /api/social
func (h *ContentHandler) UpdateSocial(c *gin.Context) {
	var req socialRequest
	if !bindAndValidate(c, &req) {
		return
	}

	social, err := h.content.UpdateSocial(requestContext(c), services.SocialInput{
		Github:       req.Github,
		Linkedin:     req.Linkedin,
		Researchgate: req.Researchgate,
		Email:        req.Email,
		Phone:        req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, social)
}
