package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
	"github.com/LattanaDev/laobooks_backend/internal/dto"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// assetHandler handles HTTP requests related to fixed assets.
type assetHandler struct {
	depreciationService portssvc.DepreciationSvcFacade
}

// registerAssetRoutes registers routes related to fixed assets and
// depreciation.
func registerAssetRoutes(rg *gin.RouterGroup, depreciationService portssvc.DepreciationSvcFacade) {
	h := &assetHandler{depreciationService: depreciationService}

	assets := rg.Group("/assets")
	{
		assets.POST("", h.createAsset)
		assets.GET("", h.listAssets)
		assets.GET("/:id", h.getAsset)
		assets.GET("/:id/schedule", h.previewSchedule)
		assets.POST("/:id/depreciation", h.postDepreciation)
		assets.POST("/:id/sell", h.sellAsset)
		assets.POST("/:id/dispose", h.disposeAsset)
		assets.POST("/:id/rollback", h.rollbackAsset)
	}
}

func (h *assetHandler) createAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFixedAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	companyID, userID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	asset, err := h.depreciationService.CreateAsset(c.Request.Context(), companyID, userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create asset")
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *assetHandler) getAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	asset, err := h.depreciationService.GetAsset(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve asset")
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *assetHandler) listAssets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	assets, err := h.depreciationService.ListAssets(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, logger, err, "Failed to list assets")
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *assetHandler) previewSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	schedule, err := h.depreciationService.PreviewSchedule(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute schedule")
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *assetHandler) postDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostDepreciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostDepreciation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	companyID, userID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	entry, err := h.depreciationService.PostDepreciation(c.Request.Context(), companyID, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to post depreciation")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *assetHandler) sellAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SellAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SellAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	companyID, userID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	result, err := h.depreciationService.SellAsset(c.Request.Context(), companyID, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to sell asset")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *assetHandler) disposeAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DisposeAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DisposeAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	companyID, userID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	result, err := h.depreciationService.DisposeAsset(c.Request.Context(), companyID, userID, c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to dispose asset")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *assetHandler) rollbackAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RollbackAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RollbackAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	companyID, userID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	if err := h.depreciationService.RollbackAsset(c.Request.Context(), companyID, userID, c.Param("id"), req.DeleteAsset); err != nil {
		respondError(c, logger, err, "Failed to roll back asset")
		return
	}
	c.Status(http.StatusNoContent)
}
