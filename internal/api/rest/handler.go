package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/provenance-engine/internal/service"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetAssetHistory retrieves the ownership history for one asset
	// GET /api/v1/assets/:id/history
	GetAssetHistory(c *gin.Context)

	// GetAssetOwner reads the current owner directly from the contract
	// GET /api/v1/assets/:id/owner
	GetAssetOwner(c *gin.Context)

	// GetRecentActivity retrieves the cross-asset recent-activity feed
	// GET /api/v1/activity?limit=<limit>
	GetRecentActivity(c *gin.Context)

	// InvalidateAsset forces the next history read to bypass the cache
	// POST /api/v1/assets/:id/invalidate
	InvalidateAsset(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	provenance service.Service
}

// NewHandler creates a new REST API handler
func NewHandler(provenance service.Service) Handler {
	return &handler{provenance: provenance}
}

// GetAssetHistory retrieves the ownership history for one asset
func (h *handler) GetAssetHistory(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	snapshot, err := h.provenance.GetHistory(c.Request.Context(), assetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toHistoryResponse(snapshot))
}

// GetAssetOwner reads the current owner directly from the contract
func (h *handler) GetAssetOwner(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	owner, err := h.provenance.GetCurrentOwner(c.Request.Context(), assetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ownerResponse{AssetID: assetID, Owner: owner})
}

// GetRecentActivity retrieves the cross-asset recent-activity feed
func (h *handler) GetRecentActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondBadRequest(c, "Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	feed, err := h.provenance.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toActivityResponse(feed))
}

// InvalidateAsset forces the next history read to bypass the cache
func (h *handler) InvalidateAsset(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	h.provenance.Invalidate(assetID)
	c.Status(http.StatusNoContent)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// assetIDParam parses the :id path parameter, responding on failure
func assetIDParam(c *gin.Context) (uint64, bool) {
	assetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Asset id must be an unsigned integer", c.Param("id"))
		return 0, false
	}
	return assetID, true
}
