package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-sync-service/internal/middleware"
	"catalog-sync-service/internal/services"
	"catalog-sync-service/internal/store"
)

// SyncHandler handles sync job endpoints
type SyncHandler struct {
	service *services.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(service *services.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// StartSync accepts store credentials and launches a new sync job
func (h *SyncHandler) StartSync(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	var req services.StartSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.service.StartSync(c.Request.Context(), ownerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": job})
}

// Resync launches a new sync job using the stored credentials
func (h *SyncHandler) Resync(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	job, err := h.service.Resync(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no stored credentials, run a full sync first"})
			return
		}
		if errors.Is(err, services.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": job})
}

// GetStatus returns the current sync job record
func (h *SyncHandler) GetStatus(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	job, err := h.service.GetStatus(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no sync has been run for this owner"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": job})
}
