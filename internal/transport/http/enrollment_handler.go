package handlers

import (
	"log/slog"
	"net/http"

	"github.com/waste3d/coursemarket-api/internal/application/usecase"
	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	useCase *usecase.EnrollmentUseCase
	logger  *slog.Logger
}

func NewEnrollmentHandler(uc *usecase.EnrollmentUseCase, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{useCase: uc, logger: logger}
}

// POST /api/v1/course/checkout/:id
func (h *EnrollmentHandler) Checkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseID(c, c.Param("id"), "Missing course id")
	if !ok {
		return
	}

	res, err := h.useCase.Checkout(c, userID, courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":  res.Order,
		"course": res.Course,
	})
}

// POST /api/v1/verification/:id
func (h *EnrollmentHandler) VerifyPayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	courseID, ok := parseID(c, c.Param("id"), "Missing course id")
	if !ok {
		return
	}

	var triple domain.VerificationTriple
	if err := c.ShouldBindJSON(&triple); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": usecase.MsgMissingTriple})
		return
	}

	if err := h.useCase.VerifyPayment(c, userID, courseID, triple); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": usecase.MsgPurchased})
}
