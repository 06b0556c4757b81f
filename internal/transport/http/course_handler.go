package handlers

import (
	"log/slog"
	"net/http"

	"github.com/waste3d/coursemarket-api/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	useCase *usecase.CatalogUseCase
	logger  *slog.Logger
}

func NewCourseHandler(uc *usecase.CatalogUseCase, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{useCase: uc, logger: logger}
}

// GET /api/v1/course/all
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.useCase.ListCourses(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// GET /api/v1/course/:id
func (h *CourseHandler) GetOne(c *gin.Context) {
	courseID, ok := parseID(c, c.Param("id"), "Missing course id")
	if !ok {
		return
	}
	course, err := h.useCase.GetCourse(c, courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// GET /api/v1/mycourse
func (h *CourseHandler) MyCourses(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courses, err := h.useCase.MyCourses(c, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// GET /api/v1/lectures/:id - все лекции курса
func (h *CourseHandler) Lectures(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseID(c, c.Param("id"), "Missing course id")
	if !ok {
		return
	}
	lectures, err := h.useCase.CourseLectures(c, userID, courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lectures": lectures})
}

// GET /api/v1/lecture/:id
func (h *CourseHandler) Lecture(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lectureID, ok := parseID(c, c.Param("id"), "Missing lecture id")
	if !ok {
		return
	}
	lecture, err := h.useCase.Lecture(c, userID, lectureID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lecture": lecture})
}
