package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/waste3d/coursemarket-api/internal/domain"
	"github.com/waste3d/coursemarket-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError - единая точка маппинга ошибок в HTTP.
// Неизвестные ошибки логируем и отдаем 500 без подробностей.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		status := statusFor(de.Kind)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(status, gin.H{"message": de.Message})
		return
	}

	logger.Error("unhandled error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrValidation),
		errors.Is(kind, domain.ErrConflict),
		errors.Is(kind, domain.ErrAuthenticity):
		return http.StatusBadRequest
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.UserIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Please Login"})
		return uuid.Nil, false
	}
	return id, true
}

// parseID парсит uuid из параметра/квери. Пустое значение - ошибка с missingMsg.
func parseID(c *gin.Context, raw, missingMsg string) (uuid.UUID, bool) {
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": missingMsg})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id: " + raw})
		return uuid.Nil, false
	}
	return id, true
}
