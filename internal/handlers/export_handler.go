package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"catalog-sync-service/internal/middleware"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/services"
	"catalog-sync-service/internal/store"
)

var exportHeader = []string{
	"ID", "Name", "SKU", "Type", "Status", "Price", "Regular Price",
	"Sale Price", "Stock Status", "Stock Quantity", "Categories", "Date Modified",
}

// ExportHandler serves catalog exports in CSV and XLSX formats
type ExportHandler struct {
	service *services.CatalogService
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *services.CatalogService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ExportProducts streams the full product snapshot as csv or xlsx
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	products, err := h.service.AllProducts(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "catalog not synced yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("products-%s", time.Now().UTC().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		h.writeCSV(c, products, filename)
	case "xlsx":
		h.writeXLSX(c, products, filename)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, products []models.Product, filename string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))

	w := csv.NewWriter(c.Writer)
	if err := w.Write(exportHeader); err != nil {
		return
	}
	for _, p := range products {
		if err := w.Write(exportRow(p)); err != nil {
			return
		}
	}
	w.Flush()
}

func (h *ExportHandler) writeXLSX(c *gin.Context, products []models.Product, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(exportHeader))
	for i, col := range exportHeader {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for i, p := range products {
		row := exportRow(p)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
	if err := f.Write(c.Writer); err != nil {
		return
	}
}

func exportRow(p models.Product) []string {
	stockQty := ""
	if p.StockQuantity != nil {
		stockQty = strconv.Itoa(*p.StockQuantity)
	}
	names := make([]string, 0, len(p.Categories))
	for _, cat := range p.Categories {
		names = append(names, cat.Name)
	}
	modified := ""
	if !p.DateModified.IsZero() {
		modified = p.DateModified.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.Itoa(p.ID),
		p.Name,
		p.SKU,
		string(p.Type),
		p.Status,
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.FormatFloat(p.RegularPrice, 'f', 2, 64),
		strconv.FormatFloat(p.SalePrice, 'f', 2, 64),
		string(p.StockStatus),
		stockQty,
		strings.Join(names, ", "),
		modified,
	}
}
