package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/facultysite/internal/services"
	"github.com/charlesng35/facultysite/pkg/response"
)

// CourseHandler serves course CRUD.
type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

type createCourseRequest struct {
	CourseName string `json:"courseName" validate:"omitempty,max=200"`
	CourseCode string `json:"courseCode" validate:"omitempty,max=50"`
	Semester   string `json:"semester"`
}

type updateCourseRequest struct {
	CourseName *string `json:"courseName" validate:"omitempty,max=200"`
	CourseCode *string `json:"courseCode" validate:"omitempty,max=50"`
	Semester   *string `json:"semester"`
}

// GET /api/course
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(requestContext(c), courseFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// GET /api/course/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(requestContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// POST /api/course
func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.Create(requestContext(c), services.CreateCourseInput{
		CourseName: req.CourseName,
		CourseCode: req.CourseCode,
		Semester:   req.Semester,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// PUT /api/course/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req updateCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.Update(requestContext(c), c.Param("id"), services.UpdateCourseInput{
		CourseName: req.CourseName,
		CourseCode: req.CourseCode,
		Semester:   req.Semester,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// DELETE /api/course/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: "Course deleted successfully"})
}

func courseFilter(c *gin.Context) services.CourseFilter {
	return services.CourseFilter{
		Semester:   c.Query("semester"),
		CourseCode: c.Query("courseCode"),
	}
}
