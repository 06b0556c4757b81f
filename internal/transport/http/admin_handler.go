package handlers

import (
	"log/slog"
	"net/http"

	"github.com/waste3d/coursemarket-api/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	reconcile *usecase.ReconcileUseCase
	logger    *slog.Logger
}

func NewAdminHandler(rc *usecase.ReconcileUseCase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{reconcile: rc, logger: logger}
}

// POST /api/v1/admin/reconcile
func (h *AdminHandler) Reconcile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	repaired, err := h.reconcile.RunAs(c, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repaired": repaired})
}
