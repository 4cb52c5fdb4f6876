package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/store"
)

// CatalogService serves read queries over the persisted catalog documents
type CatalogService struct {
	docs   store.DocumentStore
	logger *logrus.Entry
}

// NewCatalogService creates a new catalog service
func NewCatalogService(docs store.DocumentStore, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		docs:   docs,
		logger: logger.WithField("component", "catalog"),
	}
}

// ListProductsQuery carries the supported product list filters. Category,
// status and type filter through the prebuilt index documents; Search
// requires every query token to match via the search index.
type ListProductsQuery struct {
	Category string
	Status   string
	Type     string
	Search   string
	Page     int
	Limit    int
}

// ProductPage is one page of filtered products
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ListProducts returns products matching the query, ordered by id.
func (s *CatalogService) ListProducts(ctx context.Context, ownerID string, q ListProductsQuery) (*ProductPage, error) {
	var doc models.ProductsDocument
	if err := s.docs.Get(ctx, ownerID, models.DocProducts, &doc); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(doc.Products))
	for key := range doc.Products {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	if q.Category != "" {
		matched, err := s.indexLookup(ctx, ownerID, models.DocIndexCategory, q.Category)
		if err != nil {
			return nil, err
		}
		ids = intersect(ids, matched)
	}
	if q.Status != "" {
		matched, err := s.indexLookup(ctx, ownerID, models.DocIndexStatus, q.Status)
		if err != nil {
			return nil, err
		}
		ids = intersect(ids, matched)
	}
	if q.Type != "" {
		matched, err := s.indexLookup(ctx, ownerID, models.DocIndexType, q.Type)
		if err != nil {
			return nil, err
		}
		ids = intersect(ids, matched)
	}
	if q.Search != "" {
		matched, err := s.searchLookup(ctx, ownerID, q.Search)
		if err != nil {
			return nil, err
		}
		ids = intersect(ids, matched)
	}

	sort.Ints(ids)
	total := len(ids)

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	products := make([]models.Product, 0, end-start)
	for _, id := range ids[start:end] {
		products = append(products, doc.Products[strconv.Itoa(id)])
	}

	return &ProductPage{Products: products, Total: total, Page: page, Limit: limit}, nil
}

// GetProduct returns a single product by id.
func (s *CatalogService) GetProduct(ctx context.Context, ownerID string, id int) (*models.Product, error) {
	var doc models.ProductsDocument
	if err := s.docs.Get(ctx, ownerID, models.DocProducts, &doc); err != nil {
		return nil, err
	}
	p, ok := doc.Products[strconv.Itoa(id)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

// AllProducts returns every product in the snapshot ordered by id.
func (s *CatalogService) AllProducts(ctx context.Context, ownerID string) ([]models.Product, error) {
	var doc models.ProductsDocument
	if err := s.docs.Get(ctx, ownerID, models.DocProducts, &doc); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(doc.Products))
	for key := range doc.Products {
		if id, err := strconv.Atoi(key); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		products = append(products, doc.Products[strconv.Itoa(id)])
	}
	return products, nil
}

// GetCategories returns the categories document with its hierarchy map.
func (s *CatalogService) GetCategories(ctx context.Context, ownerID string) (*models.CategoriesDocument, error) {
	var doc models.CategoriesDocument
	if err := s.docs.Get(ctx, ownerID, models.DocCategories, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetAnalytics returns the precomputed analytics document.
func (s *CatalogService) GetAnalytics(ctx context.Context, ownerID string) (*models.AnalyticsDocument, error) {
	var doc models.AnalyticsDocument
	if err := s.docs.Get(ctx, ownerID, models.DocAnalytics, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetMetadata returns the store metadata document.
func (s *CatalogService) GetMetadata(ctx context.Context, ownerID string) (*models.MetadataDocument, error) {
	var doc models.MetadataDocument
	if err := s.docs.Get(ctx, ownerID, models.DocMetadata, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *CatalogService) indexLookup(ctx context.Context, ownerID, docName, bucket string) ([]int, error) {
	var doc models.IndexDocument
	if err := s.docs.Get(ctx, ownerID, docName, &doc); err != nil {
		return nil, err
	}
	return doc.Index[bucket], nil
}

// searchLookup resolves a free-text query against the search index. Every
// token of at least 3 characters must match; shorter tokens are ignored the
// same way the index builder ignores them.
func (s *CatalogService) searchLookup(ctx context.Context, ownerID, query string) ([]int, error) {
	var doc models.IndexDocument
	if err := s.docs.Get(ctx, ownerID, models.DocIndexSearch, &doc); err != nil {
		return nil, err
	}

	result := []int(nil)
	first := true
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if len(token) < 3 {
			continue
		}
		ids := doc.Index[token]
		if first {
			result = ids
			first = false
			continue
		}
		result = intersect(result, ids)
	}
	if first {
		// Query contained no usable tokens; match nothing.
		return nil, nil
	}
	return result, nil
}

func intersect(a, b []int) []int {
	set := make(map[int]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	out := make([]int, 0)
	for _, id := range a {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}
