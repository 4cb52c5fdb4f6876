package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catalog-sync-service/internal/middleware"
	"catalog-sync-service/internal/services"
	"catalog-sync-service/internal/store"
)

// CatalogHandler serves read endpoints over the synced catalog documents
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProducts returns a filtered, paginated product list
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	q := services.ListProductsQuery{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Type:     c.Query("type"),
		Search:   c.Query("search"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		q.Limit = limit
	}

	result, err := h.service.ListProducts(c.Request.Context(), ownerID, q)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "catalog not synced yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetProduct returns a single product by id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

// ListCategories returns the category map and hierarchy
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	doc, err := h.service.GetCategories(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "catalog not synced yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// GetAnalytics returns the precomputed analytics document
func (h *CatalogHandler) GetAnalytics(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	doc, err := h.service.GetAnalytics(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analytics not available yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}

// GetMetadata returns the store metadata document
func (h *CatalogHandler) GetMetadata(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	doc, err := h.service.GetMetadata(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "metadata not available yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doc})
}
