package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-sync-service/internal/models"
)

func sampleProducts() map[int]models.Product {
	return map[int]models.Product{
		1: {ID: 1, Name: "Red Hoodie", SKU: "HOOD-R", Type: models.ProductTypeSimple, Status: "publish", CategoryIDs: []int{10}},
		2: {ID: 2, Name: "Blue Hoodie", SKU: "HOOD-B", Type: models.ProductTypeSimple, Status: "publish", CategoryIDs: []int{10, 20}},
		3: {ID: 3, Name: "Sticker", Type: models.ProductTypeSimple, Status: "draft"},
	}
}

func TestBuildIndexesCategoryBuckets(t *testing.T) {
	idx := BuildIndexes(sampleProducts(), time.Now())

	assert.Equal(t, []int{1, 2}, idx.Category.Index["10"])
	assert.Equal(t, []int{2}, idx.Category.Index["20"])
	assert.Equal(t, []int{3}, idx.Category.Index[models.UncategorizedBucket])
}

func TestBuildIndexesUncategorizedIsExclusive(t *testing.T) {
	idx := BuildIndexes(sampleProducts(), time.Now())

	for bucket, ids := range idx.Category.Index {
		if bucket == models.UncategorizedBucket {
			continue
		}
		assert.NotContains(t, ids, 3, "bucket %s", bucket)
	}
}

func TestBuildIndexesStatusAndType(t *testing.T) {
	idx := BuildIndexes(sampleProducts(), time.Now())

	assert.Equal(t, []int{1, 2}, idx.Status.Index["publish"])
	assert.Equal(t, []int{3}, idx.Status.Index["draft"])
	assert.Equal(t, []int{1, 2, 3}, idx.Type.Index["simple"])
}

func TestBuildIndexesSearchTokens(t *testing.T) {
	products := map[int]models.Product{
		1: {ID: 1, Name: "Red XL Tee", Description: "<p>A comfy cotton tee</p>"},
	}
	idx := BuildIndexes(products, time.Now())

	assert.Equal(t, []int{1}, idx.Search.Index["red"])
	assert.Equal(t, []int{1}, idx.Search.Index["cotton"])
	assert.NotContains(t, idx.Search.Index, "xl")
	assert.NotContains(t, idx.Search.Index, "a")
	assert.NotContains(t, idx.Search.Index, "<p>a")
}

func TestBuildIndexesTokenDeduplication(t *testing.T) {
	products := map[int]models.Product{
		1: {ID: 1, Name: "Tee Tee Tee"},
	}
	idx := BuildIndexes(products, time.Now())
	assert.Equal(t, []int{1}, idx.Search.Index["tee"])
}

func TestBuildIndexesDeterministic(t *testing.T) {
	products := sampleProducts()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	first := BuildIndexes(products, now)
	second := BuildIndexes(products, now)

	require.Equal(t, first.Category.Index, second.Category.Index)
	require.Equal(t, first.Status.Index, second.Status.Index)
	require.Equal(t, first.Type.Index, second.Type.Index)
	require.Equal(t, first.Search.Index, second.Search.Index)
}

func TestBuildIndexesEmptyCatalog(t *testing.T) {
	idx := BuildIndexes(map[int]models.Product{}, time.Now())
	assert.Empty(t, idx.Category.Index)
	assert.Equal(t, models.SyncVersion, idx.Category.SyncVersion)
}
