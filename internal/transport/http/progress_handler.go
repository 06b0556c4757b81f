package handlers

import (
	"log/slog"
	"net/http"

	"github.com/waste3d/coursemarket-api/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

const (
	msgMissingCourseOrLecture = "Missing course or lectureId in query parameters"
	msgMissingCourse          = "Missing course in query parameters"
)

type ProgressHandler struct {
	useCase *usecase.ProgressUseCase
	logger  *slog.Logger
}

func NewProgressHandler(uc *usecase.ProgressUseCase, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{useCase: uc, logger: logger}
}

// POST /api/v1/user/progress?course=&lectureId=
func (h *ProgressHandler) AddProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lectureID := c.Query("lectureId")
	if c.Query("course") == "" || lectureID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgMissingCourseOrLecture})
		return
	}
	courseID, ok := parseID(c, c.Query("course"), msgMissingCourseOrLecture)
	if !ok {
		return
	}

	added, err := h.useCase.AddProgress(c, userID, courseID, lectureID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"message": usecase.MsgAlreadyRecorded})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": usecase.MsgProgressAdded})
}

// GET /api/v1/user/progress?course=
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseID(c, c.Query("course"), msgMissingCourse)
	if !ok {
		return
	}

	report, err := h.useCase.GetProgress(c, userID, courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courseProgressPercentage": report.Percentage,
		"completedLectures":        report.Completed,
		"allLectures":              report.Total,
		"progress":                 report.Progress,
	})
}
