package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-sync-service/internal/clients/woocommerce"
	"catalog-sync-service/internal/models"
)

func TestNormalizeProductDefaults(t *testing.T) {
	p := NormalizeProduct(woocommerce.RawProduct{ID: 1, Name: "Widget"})

	assert.Equal(t, models.ProductTypeSimple, p.Type)
	assert.Equal(t, "publish", p.Status)
	assert.Equal(t, models.StockStatusInStock, p.StockStatus)
	assert.Equal(t, "no", p.Backorders)
	assert.Zero(t, p.Price)
}

func TestNormalizeProductPriceFallback(t *testing.T) {
	p := NormalizeProduct(woocommerce.RawProduct{
		ID:           2,
		RegularPrice: "19.99",
	})
	assert.Equal(t, 19.99, p.Price)

	p = NormalizeProduct(woocommerce.RawProduct{
		ID:           3,
		OnSale:       true,
		RegularPrice: "19.99",
		SalePrice:    "14.99",
	})
	assert.Equal(t, 14.99, p.Price)

	p = NormalizeProduct(woocommerce.RawProduct{
		ID:           4,
		Price:        "9.50",
		RegularPrice: "19.99",
	})
	assert.Equal(t, 9.5, p.Price)
}

func TestNormalizeProductMalformedPrice(t *testing.T) {
	p := NormalizeProduct(woocommerce.RawProduct{ID: 5, Price: "not-a-number"})
	assert.Zero(t, p.Price)
}

func TestNormalizeProductTaxonomy(t *testing.T) {
	p := NormalizeProduct(woocommerce.RawProduct{
		ID: 6,
		Categories: []woocommerce.RawTerm{
			{ID: 10, Name: "Shoes", Slug: "shoes"},
			{ID: 20, Name: "Sale", Slug: "sale"},
		},
	})
	assert.Equal(t, []int{10, 20}, p.CategoryIDs)
	require.Len(t, p.Categories, 2)
	assert.Equal(t, "Shoes", p.Categories[0].Name)
}

func TestNormalizeCatalogAttachesVariations(t *testing.T) {
	rawProducts := []woocommerce.RawProduct{
		{ID: 100, Name: "Hoodie", Type: "variable", Variations: []int{102, 101}},
		{ID: 200, Name: "Mug", Type: "simple"},
	}
	variations := map[int][]woocommerce.RawProduct{
		100: {
			{ID: 102, Attributes: []woocommerce.RawAttribute{{Name: "Size", Option: "L"}}},
			{ID: 101, Attributes: []woocommerce.RawAttribute{{Name: "Size", Option: "M"}}},
		},
	}

	products := NormalizeCatalog(rawProducts, variations)
	require.Len(t, products, 4)

	parent := products[100]
	assert.Equal(t, models.ProductTypeVariable, parent.Type)
	assert.Equal(t, []int{101, 102}, parent.Variations)

	for _, childID := range parent.Variations {
		child, ok := products[childID]
		require.True(t, ok)
		assert.Equal(t, models.ProductTypeVariation, child.Type)
		assert.Equal(t, 100, child.ParentID)
	}
	assert.Equal(t, "Hoodie - L", products[102].Name)
}

func TestNormalizeCatalogDropsOrphanVariations(t *testing.T) {
	variations := map[int][]woocommerce.RawProduct{
		999: {{ID: 1000}},
	}
	products := NormalizeCatalog(nil, variations)
	assert.Empty(t, products)
}

func TestNormalizeCatalogIgnoresVariationsOfSimpleProduct(t *testing.T) {
	rawProducts := []woocommerce.RawProduct{{ID: 1, Type: "simple"}}
	variations := map[int][]woocommerce.RawProduct{
		1: {{ID: 2}},
	}
	products := NormalizeCatalog(rawProducts, variations)
	require.Len(t, products, 1)
	assert.Empty(t, products[1].Variations)
}

func TestNormalizeVariationInheritance(t *testing.T) {
	rawProducts := []woocommerce.RawProduct{
		{
			ID: 10, Name: "Shirt", SKU: "SHIRT", Type: "variable",
			Categories: []woocommerce.RawTerm{{ID: 7, Name: "Tops"}},
			Variations: []int{11},
		},
	}
	variations := map[int][]woocommerce.RawProduct{
		10: {{ID: 11}},
	}
	products := NormalizeCatalog(rawProducts, variations)

	child := products[11]
	assert.Equal(t, "SHIRT", child.SKU)
	assert.Equal(t, []int{7}, child.CategoryIDs)
	assert.Equal(t, "Shirt", child.Name)
}

func TestNormalizeCategoriesHierarchy(t *testing.T) {
	raws := []woocommerce.RawCategory{
		{ID: 1, Name: "Clothing", Parent: 0},
		{ID: 3, Name: "Shirts", Parent: 1},
		{ID: 2, Name: "Pants", Parent: 1},
	}
	categories, hierarchy := NormalizeCategories(raws)

	require.Len(t, categories, 3)
	assert.Equal(t, []int{2, 3}, categories[1].Children)
	assert.Empty(t, categories[2].Children)
	assert.Equal(t, map[string][]int{"1": {2, 3}}, hierarchy)
}

func TestNormalizeOrdersSubtotalAndBilling(t *testing.T) {
	created := woocommerce.Time{Time: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)}
	raws := []woocommerce.RawOrder{
		{
			ID:       50,
			Status:   "completed",
			Currency: "USD",
			Total:    "45.00",
			Billing:  woocommerce.RawBilling{Email: "a@b.c", Country: "US"},
			LineItems: []woocommerce.RawLineItem{
				{ProductID: 1, Quantity: 2, Subtotal: "20.00", Total: "20.00"},
				{ProductID: 2, Quantity: 1, Subtotal: "25.00", Total: "25.00"},
			},
			DateCreated: created,
		},
	}

	orders := NormalizeOrders(raws)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, 45.0, o.Subtotal)
	assert.Equal(t, 45.0, o.Total)
	assert.Equal(t, "a@b.c", o.Billing.Email)
	assert.Equal(t, "US", o.Billing.Country)
	require.Len(t, o.LineItems, 2)
	assert.Equal(t, 20.0, o.LineItems[0].Total)
}
