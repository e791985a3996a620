package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	closingService portssvc.ClosingSvcFacade
}

// registerPeriodRoutes registers routes related to year-end closing.
func registerPeriodRoutes(rg *gin.RouterGroup, closingService portssvc.ClosingSvcFacade) {
	h := &periodHandler{closingService: closingService}

	periods := rg.Group("/periods")
	{
		periods.GET("", h.listPeriods)
		periods.POST("/:year/close", h.closePeriod)
		periods.POST("/:year/rollback", h.rollbackPeriod)
	}
}

func (h *periodHandler) parseYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year: " + c.Param("year")})
		return 0, false
	}
	return year, true
}

func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	periods, err := h.closingService.ListPeriods(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, logger, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, periods)
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, userID, ok := requestScope(c, logger)
	if !ok {
		return
	}
	year, ok := h.parseYear(c)
	if !ok {
		return
	}

	period, err := h.closingService.ClosePeriod(c.Request.Context(), companyID, userID, year)
	if err != nil {
		respondError(c, logger, err, "Failed to close period")
		return
	}
	c.JSON(http.StatusOK, period)
}

func (h *periodHandler) rollbackPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, userID, ok := requestScope(c, logger)
	if !ok {
		return
	}
	year, ok := h.parseYear(c)
	if !ok {
		return
	}

	period, err := h.closingService.RollbackPeriod(c.Request.Context(), companyID, userID, year)
	if err != nil {
		respondError(c, logger, err, "Failed to roll back period")
		return
	}
	c.JSON(http.StatusOK, period)
}
