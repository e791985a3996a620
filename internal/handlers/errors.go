package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError translates service errors into HTTP responses. Sentinel
// errors map to client statuses; anything else is a 500 with a generic
// message so internals never leak.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvariant):
		logger.Warn("Invariant violation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}

// requestScope pulls the authenticated user and company from the context,
// aborting with 401 when either is missing.
func requestScope(c *gin.Context, logger *slog.Logger) (companyID, userID string, ok bool) {
	userID, okUser := middleware.GetUserIDFromContext(c)
	companyID, okCompany := middleware.GetCompanyIDFromContext(c)
	if !okUser || !okCompany {
		logger.Error("Authenticated scope missing from context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return companyID, userID, true
}
