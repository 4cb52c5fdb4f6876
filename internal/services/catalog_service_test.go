package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/store"
)

func seedCatalog(t *testing.T) (*CatalogService, *store.MemoryStore) {
	t.Helper()
	docs := store.NewMemoryStore()
	ctx := context.Background()

	products := map[int]models.Product{
		1: {ID: 1, Name: "Red Hoodie", Type: models.ProductTypeSimple, Status: "publish", CategoryIDs: []int{10}},
		2: {ID: 2, Name: "Blue Hoodie", Type: models.ProductTypeSimple, Status: "publish", CategoryIDs: []int{10}},
		3: {ID: 3, Name: "Mug", Type: models.ProductTypeSimple, Status: "draft"},
	}
	productMap := map[string]models.Product{
		"1": products[1], "2": products[2], "3": products[3],
	}
	now := time.Now().UTC()

	require.NoError(t, docs.Put(ctx, "owner-1", models.DocProducts, &models.ProductsDocument{
		SyncVersion: models.SyncVersion, Products: productMap, Total: 3, LastUpdated: now,
	}))

	idx := BuildIndexes(products, now)
	require.NoError(t, docs.Put(ctx, "owner-1", models.DocIndexCategory, &idx.Category))
	require.NoError(t, docs.Put(ctx, "owner-1", models.DocIndexStatus, &idx.Status))
	require.NoError(t, docs.Put(ctx, "owner-1", models.DocIndexType, &idx.Type))
	require.NoError(t, docs.Put(ctx, "owner-1", models.DocIndexSearch, &idx.Search))

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewCatalogService(docs, logger), docs
}

func TestListProductsNoFilter(t *testing.T) {
	svc, _ := seedCatalog(t)

	page, err := svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Products, 3)
	assert.Equal(t, 1, page.Products[0].ID)
	assert.Equal(t, 3, page.Products[2].ID)
}

func TestListProductsCategoryFilter(t *testing.T) {
	svc, _ := seedCatalog(t)

	page, err := svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{Category: "10"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{Category: models.UncategorizedBucket})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 3, page.Products[0].ID)
}

func TestListProductsCombinedFilters(t *testing.T) {
	svc, _ := seedCatalog(t)

	page, err := svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{
		Category: "10",
		Status:   "publish",
		Search:   "red hoodie",
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Products[0].ID)
}

func TestListProductsSearchIgnoresShortTokens(t *testing.T) {
	svc, _ := seedCatalog(t)

	// "xy" is below the token length floor, so only "hoodie" constrains
	page, err := svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{Search: "xy hoodie"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestListProductsSearchNoUsableTokens(t *testing.T) {
	svc, _ := seedCatalog(t)

	page, err := svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{Search: "ab"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestListProductsPagination(t *testing.T) {
	svc, _ := seedCatalog(t)

	page, err := svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, 3, page.Products[0].ID)
}

func TestListProductsBeyondLastPage(t *testing.T) {
	svc, _ := seedCatalog(t)

	page, err := svc.ListProducts(context.Background(), "owner-1", ListProductsQuery{Page: 9, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Products)
}

func TestGetProduct(t *testing.T) {
	svc, _ := seedCatalog(t)

	p, err := svc.GetProduct(context.Background(), "owner-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "Blue Hoodie", p.Name)

	_, err = svc.GetProduct(context.Background(), "owner-1", 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListProductsUnsyncedOwner(t *testing.T) {
	svc, _ := seedCatalog(t)

	_, err := svc.ListProducts(context.Background(), "owner-2", ListProductsQuery{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAllProductsOrdered(t *testing.T) {
	svc, _ := seedCatalog(t)

	products, err := svc.AllProducts(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 2, products[1].ID)
	assert.Equal(t, 3, products[2].ID)
}
