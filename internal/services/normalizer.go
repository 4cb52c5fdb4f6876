package services

import (
	"sort"
	"strconv"
	"strings"

	"catalog-sync-service/internal/clients/woocommerce"
	"catalog-sync-service/internal/models"
)

// Per-field defaults for records missing optional fields. Normalization
// never fails on partial input: every canonical field has a defined
// fallback, enumerated here rather than scattered through the mapping.
const (
	defaultProductType = string(models.ProductTypeSimple)
	defaultStatus      = "publish"
	defaultStockStatus = string(models.StockStatusInStock)
	defaultBackorders  = "no"
)

// NormalizeCatalog maps all fetched products and their variation groups
// into the canonical product map keyed by product id. Variation children
// are attached to their variable parents first; a parent's Variations list
// holds only children that were actually fetched, and variations whose
// parent is missing from the snapshot are dropped.
func NormalizeCatalog(rawProducts []woocommerce.RawProduct, variationsByParent map[int][]woocommerce.RawProduct) map[int]models.Product {
	products := make(map[int]models.Product, len(rawProducts))

	for _, raw := range rawProducts {
		p := NormalizeProduct(raw)
		if p.Type == models.ProductTypeVariable {
			if group := variationsByParent[p.ID]; len(group) > 0 {
				ids := make([]int, 0, len(group))
				for _, v := range group {
					ids = append(ids, v.ID)
				}
				sort.Ints(ids)
				p.Variations = ids
			}
		}
		products[p.ID] = p
	}

	for parentID, group := range variationsByParent {
		parent, ok := products[parentID]
		if !ok || parent.Type != models.ProductTypeVariable {
			continue
		}
		for _, raw := range group {
			products[raw.ID] = normalizeVariation(raw, parent)
		}
	}

	return products
}

// NormalizeProduct maps one raw product record into the canonical schema
func NormalizeProduct(raw woocommerce.RawProduct) models.Product {
	p := models.Product{
		ID:               raw.ID,
		Name:             raw.Name,
		Slug:             raw.Slug,
		SKU:              raw.SKU,
		Type:             models.ProductType(stringOr(raw.Type, defaultProductType)),
		Status:           stringOr(raw.Status, defaultStatus),
		Permalink:        raw.Permalink,
		Price:            parsePrice(raw.Price),
		RegularPrice:     parsePrice(raw.RegularPrice),
		SalePrice:        parsePrice(raw.SalePrice),
		OnSale:           raw.OnSale,
		StockStatus:      models.StockStatus(stringOr(raw.StockStatus, defaultStockStatus)),
		StockQuantity:    raw.StockQuantity,
		Backorders:       stringOr(raw.Backorders, defaultBackorders),
		Weight:           raw.Weight,
		Dimensions:       models.Dimensions(raw.Dimensions),
		Description:      FormatContent(raw.Description),
		ShortDescription: FormatContent(raw.ShortDescription),
		DateCreated:      raw.DateCreated.Time,
		DateModified:     raw.DateModified.Time,
	}

	if p.Price == 0 {
		if p.OnSale && p.SalePrice > 0 {
			p.Price = p.SalePrice
		} else {
			p.Price = p.RegularPrice
		}
	}

	if raw.DateOnSaleFrom != nil && !raw.DateOnSaleFrom.IsZero() {
		t := raw.DateOnSaleFrom.Time
		p.DateOnSaleFrom = &t
	}
	if raw.DateOnSaleTo != nil && !raw.DateOnSaleTo.IsZero() {
		t := raw.DateOnSaleTo.Time
		p.DateOnSaleTo = &t
	}

	// Flatten embedded taxonomy objects to id lists, retaining the
	// embedded arrays for display.
	p.CategoryIDs = make([]int, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		p.CategoryIDs = append(p.CategoryIDs, c.ID)
		p.Categories = append(p.Categories, models.TermRef(c))
	}
	p.TagIDs = make([]int, 0, len(raw.Tags))
	for _, t := range raw.Tags {
		p.TagIDs = append(p.TagIDs, t.ID)
		p.Tags = append(p.Tags, models.TermRef(t))
	}

	for _, a := range raw.Attributes {
		options := a.Options
		if len(options) == 0 && a.Option != "" {
			options = []string{a.Option}
		}
		p.Attributes = append(p.Attributes, models.Attribute{
			ID:        a.ID,
			Name:      a.Name,
			Options:   options,
			Visible:   a.Visible,
			Variation: a.Variation,
		})
	}

	for _, img := range raw.Images {
		p.Images = append(p.Images, models.ProductImage{ID: img.ID, Src: img.Src, Alt: img.Alt})
	}

	return p
}

// normalizeVariation maps a variation record, inheriting display fields
// from its parent where the store leaves them blank.
func normalizeVariation(raw woocommerce.RawProduct, parent models.Product) models.Product {
	v := NormalizeProduct(raw)
	v.Type = models.ProductTypeVariation
	v.ParentID = parent.ID
	v.Variations = nil
	if v.Name == "" {
		v.Name = variationName(parent.Name, v.Attributes)
	}
	if v.SKU == "" {
		v.SKU = parent.SKU
	}
	if len(v.CategoryIDs) == 0 {
		v.CategoryIDs = parent.CategoryIDs
		v.Categories = parent.Categories
	}
	return v
}

func variationName(parentName string, attrs []models.Attribute) string {
	parts := make([]string, 0, len(attrs)+1)
	if parentName != "" {
		parts = append(parts, parentName)
	}
	for _, a := range attrs {
		if len(a.Options) > 0 {
			parts = append(parts, a.Options[0])
		}
	}
	return strings.Join(parts, " - ")
}

// NormalizeCategories maps raw categories and computes the parent->children
// hierarchy as the inverse of the parent edges. Parent ids are trusted as
// received; a malformed circular chain would pass through un-flagged.
func NormalizeCategories(raws []woocommerce.RawCategory) (map[int]models.Category, map[string][]int) {
	categories := make(map[int]models.Category, len(raws))
	children := make(map[int][]int)

	for _, raw := range raws {
		c := models.Category{
			ID:        raw.ID,
			Name:      raw.Name,
			Slug:      raw.Slug,
			Parent:    raw.Parent,
			Display:   stringOr(raw.Display, "default"),
			MenuOrder: raw.MenuOrder,
			Count:     raw.Count,
			Children:  []int{},
		}
		if raw.Image != nil {
			c.Image = raw.Image.Src
		}
		categories[c.ID] = c
		if raw.Parent != 0 {
			children[raw.Parent] = append(children[raw.Parent], raw.ID)
		}
	}

	hierarchy := make(map[string][]int, len(children))
	for parentID, ids := range children {
		sort.Ints(ids)
		if c, ok := categories[parentID]; ok {
			c.Children = ids
			categories[parentID] = c
		}
		hierarchy[strconv.Itoa(parentID)] = ids
	}

	return categories, hierarchy
}

// NormalizeOrders maps raw orders into the analytics-only canonical form,
// keeping just the PII-minimized billing subset.
func NormalizeOrders(raws []woocommerce.RawOrder) []models.Order {
	orders := make([]models.Order, 0, len(raws))
	for _, raw := range raws {
		o := models.Order{
			ID:       raw.ID,
			Status:   stringOr(raw.Status, "pending"),
			Currency: raw.Currency,
			TotalTax: parsePrice(raw.TotalTax),
			Shipping: parsePrice(raw.ShippingTotal),
			Discount: parsePrice(raw.DiscountTotal),
			Total:    parsePrice(raw.Total),
			Billing: models.BillingSummary{
				Email:   raw.Billing.Email,
				Phone:   raw.Billing.Phone,
				Country: raw.Billing.Country,
			},
			DateCreated: raw.DateCreated.Time,
		}
		for _, li := range raw.LineItems {
			lineTotal := parsePrice(li.Total)
			o.Subtotal += parsePrice(li.Subtotal)
			o.LineItems = append(o.LineItems, models.LineItem{
				ProductID:   li.ProductID,
				VariationID: li.VariationID,
				Name:        li.Name,
				Quantity:    li.Quantity,
				Price:       li.Price,
				Total:       lineTotal,
			})
		}
		orders = append(orders, o)
	}
	return orders
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
