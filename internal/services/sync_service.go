package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/clients/woocommerce"
	"catalog-sync-service/internal/config"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/store"
	"catalog-sync-service/internal/util"
)

// StoreClient is the remote catalog API surface the orchestrator depends on.
type StoreClient interface {
	Preflight(ctx context.Context) error
	FetchProducts(ctx context.Context) ([]woocommerce.RawProduct, error)
	FetchCategories(ctx context.Context) ([]woocommerce.RawCategory, error)
	FetchAllVariations(ctx context.Context, parentIDs []int) map[int][]woocommerce.RawProduct
	FetchOrders(ctx context.Context) ([]woocommerce.RawOrder, error)
}

// ClientFactory builds a remote client from stored credentials.
type ClientFactory func(creds models.StoreCredentials) StoreClient

// SyncService orchestrates full catalog synchronization jobs
type SyncService struct {
	docs      store.DocumentStore
	newClient ClientFactory
	config    *config.Config
	guard     *ownerGuard
	logger    *logrus.Entry
}

// NewSyncService creates a new sync service
func NewSyncService(docs store.DocumentStore, factory ClientFactory, cfg *config.Config, logger *logrus.Logger) *SyncService {
	return &SyncService{
		docs:      docs,
		newClient: factory,
		config:    cfg,
		guard:     newOwnerGuard(0),
		logger:    logger.WithField("component", "sync"),
	}
}

// StartSyncRequest carries the store credentials for a new sync job
type StartSyncRequest struct {
	StoreURL       string `json:"storeUrl" binding:"required"`
	ConsumerKey    string `json:"consumerKey" binding:"required"`
	ConsumerSecret string `json:"consumerSecret" binding:"required"`
}

// StartSync creates a new sync job and runs it in the background.
// The returned job reflects the initial started status.
func (s *SyncService) StartSync(ctx context.Context, ownerID string, req *StartSyncRequest) (*models.SyncJob, error) {
	creds := models.StoreCredentials{
		StoreURL:       req.StoreURL,
		ConsumerKey:    req.ConsumerKey,
		ConsumerSecret: req.ConsumerSecret,
		SavedAt:        time.Now().UTC(),
	}
	return s.launch(ctx, ownerID, creds)
}

// Resync starts a new sync job reusing the credentials persisted by a
// previous sync for this owner.
func (s *SyncService) Resync(ctx context.Context, ownerID string) (*models.SyncJob, error) {
	var creds models.StoreCredentials
	if err := s.docs.Get(ctx, ownerID, models.DocCredentials, &creds); err != nil {
		return nil, fmt.Errorf("no stored credentials for owner: %w", err)
	}
	return s.launch(ctx, ownerID, creds)
}

// GetStatus returns the current sync job record for the owner.
func (s *SyncService) GetStatus(ctx context.Context, ownerID string) (*models.SyncJob, error) {
	var job models.SyncJob
	if err := s.docs.Get(ctx, ownerID, models.DocSyncStatus, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ErrSyncInProgress is returned when a sync is requested for an owner whose
// previous sync has not finished.
var ErrSyncInProgress = errors.New("a sync is already running for this owner")

func (s *SyncService) launch(ctx context.Context, ownerID string, creds models.StoreCredentials) (*models.SyncJob, error) {
	if !s.guard.TryAcquire(ownerID) {
		return nil, ErrSyncInProgress
	}
	now := time.Now().UTC()
	job := &models.SyncJob{
		ID:          uuid.New().String(),
		SyncVersion: models.SyncVersion,
		Status:      models.JobStatusStarted,
		Progress:    0,
		Message:     "Sync started",
		StartedAt:   now,
		UpdatedAt:   now,
	}
	// The initial status write is authoritative; if it fails the job is
	// rejected rather than running invisibly.
	if err := s.docs.Put(ctx, ownerID, models.DocSyncStatus, job); err != nil {
		s.guard.Release(ownerID)
		return nil, fmt.Errorf("failed to record sync job: %w", err)
	}

	util.SyncsStartedTotal.Inc()
	go func() {
		// Detached from the request context; the job outlives the HTTP call.
		defer s.guard.Release(ownerID)
		if err := s.Run(context.Background(), ownerID, job.ID, creds); err != nil {
			s.logger.WithError(err).WithField("jobId", job.ID).Error("Sync run returned error")
		}
	}()
	return job, nil
}

// Run executes a full sync for the owner. Failures are recorded on the job
// status document; Run itself returns an error only when the failure could
// not be recorded either.
func (s *SyncService) Run(ctx context.Context, ownerID, jobID string, creds models.StoreCredentials) error {
	log := s.logger.WithFields(logrus.Fields{"ownerId": ownerID, "jobId": jobID})

	// Restart guard: a redelivered job whose status record already shows
	// completed is not rerun. launch overwrites the record with started
	// before Run begins, so a fresh sync always passes this check.
	var existing models.SyncJob
	if err := s.docs.Get(ctx, ownerID, models.DocSyncStatus, &existing); err == nil {
		if existing.Status == models.JobStatusCompleted {
			log.Info("Job already completed, skipping duplicate run")
			return nil
		}
	}

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Sync run panicked")
			s.fail(ctx, ownerID, jobID, "internal", fmt.Sprintf("internal error: %v", r))
		}
	}()

	client := s.newClient(creds)

	s.writeStatus(ctx, ownerID, jobID, 5, "Verifying store connectivity")
	if err := client.Preflight(ctx); err != nil {
		log.WithError(err).Error("Store preflight failed")
		s.fail(ctx, ownerID, jobID, "preflight", err.Error())
		return nil
	}

	s.writeStatus(ctx, ownerID, jobID, 10, "Fetching products and categories")

	var (
		wg            sync.WaitGroup
		rawProducts   []woocommerce.RawProduct
		rawCategories []woocommerce.RawCategory
		productsErr   error
		categoriesErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		rawProducts, productsErr = client.FetchProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		rawCategories, categoriesErr = client.FetchCategories(ctx)
	}()
	wg.Wait()
	if productsErr != nil {
		log.WithError(productsErr).Error("Product fetch failed")
		s.fail(ctx, ownerID, jobID, "products", productsErr.Error())
		return nil
	}
	if categoriesErr != nil {
		log.WithError(categoriesErr).Error("Category fetch failed")
		s.fail(ctx, ownerID, jobID, "categories", categoriesErr.Error())
		return nil
	}
	log.WithFields(logrus.Fields{"products": len(rawProducts), "categories": len(rawCategories)}).Info("Catalog fetched")

	s.writeStatus(ctx, ownerID, jobID, 25, "Fetching product variations")
	parentIDs := variableParents(rawProducts)
	variations := client.FetchAllVariations(ctx, parentIDs)
	variationCount := 0
	for _, group := range variations {
		variationCount += len(group)
	}

	s.writeStatus(ctx, ownerID, jobID, 45, "Fetching recent orders")
	rawOrders, err := client.FetchOrders(ctx)
	if err != nil {
		log.WithError(err).Error("Order fetch failed")
		s.fail(ctx, ownerID, jobID, "orders", err.Error())
		return nil
	}

	s.writeStatus(ctx, ownerID, jobID, 60, "Normalizing catalog")
	products := NormalizeCatalog(rawProducts, variations)
	categories, hierarchy := NormalizeCategories(rawCategories)
	orders := NormalizeOrders(rawOrders)

	s.writeStatus(ctx, ownerID, jobID, 75, "Building indexes and analytics")
	now := time.Now().UTC()
	indexes := BuildIndexes(products, now)
	analytics := BuildAnalytics(orders, now)

	s.writeStatus(ctx, ownerID, jobID, 85, "Persisting documents")
	result, err := s.persist(ctx, ownerID, jobID, products, categories, hierarchy, orders, indexes, &analytics, creds, now)
	if err != nil {
		log.WithError(err).Error("Document persistence failed")
		s.fail(ctx, ownerID, jobID, "persist", err.Error())
		return nil
	}
	result.VariationCount = variationCount

	completed := time.Now().UTC()
	final := &models.SyncJob{
		ID:          jobID,
		SyncVersion: models.SyncVersion,
		Status:      models.JobStatusCompleted,
		Progress:    100,
		Message:     "Sync completed",
		StartedAt:   started.UTC(),
		UpdatedAt:   completed,
		CompletedAt: &completed,
		Result:      result,
	}
	if err := s.docs.Put(ctx, ownerID, models.DocSyncStatus, final); err != nil {
		// The data documents landed; only the status record is stale.
		log.WithError(err).Error("Failed to record completed status")
		util.StatusWriteFailures.Inc()
	}

	util.SyncsCompletedTotal.Inc()
	util.SyncDuration.Observe(time.Since(started).Seconds())
	log.WithFields(logrus.Fields{
		"products":   result.ProductCount,
		"variations": result.VariationCount,
		"categories": result.CategoryCount,
		"orders":     result.OrderCount,
		"duration":   time.Since(started).String(),
	}).Info("Sync completed")
	return nil
}

func (s *SyncService) persist(
	ctx context.Context,
	ownerID, jobID string,
	products map[int]models.Product,
	categories map[int]models.Category,
	hierarchy map[string][]int,
	orders []models.Order,
	indexes Indexes,
	analytics *models.AnalyticsDocument,
	creds models.StoreCredentials,
	now time.Time,
) (*models.SyncResult, error) {
	productMap := make(map[string]models.Product, len(products))
	for id, p := range products {
		productMap[strconv.Itoa(id)] = p
	}
	categoryMap := make(map[string]models.Category, len(categories))
	for id, c := range categories {
		categoryMap[strconv.Itoa(id)] = c
	}
	docs := []struct {
		name string
		body any
	}{
		{models.DocProducts, &models.ProductsDocument{SyncVersion: models.SyncVersion, Products: productMap, Total: len(productMap), LastUpdated: now}},
		{models.DocCategories, &models.CategoriesDocument{SyncVersion: models.SyncVersion, Categories: categoryMap, Hierarchy: hierarchy, Total: len(categoryMap), LastUpdated: now}},
		{models.DocOrders, &models.OrdersDocument{SyncVersion: models.SyncVersion, Orders: orders, Total: len(orders), LastUpdated: now}},
		{models.DocIndexCategory, &indexes.Category},
		{models.DocIndexStatus, &indexes.Status},
		{models.DocIndexType, &indexes.Type},
		{models.DocIndexSearch, &indexes.Search},
		{models.DocAnalytics, analytics},
		{models.DocMetadata, &models.MetadataDocument{
			SyncVersion:   models.SyncVersion,
			StoreURL:      creds.StoreURL,
			ProductCount:  len(productMap),
			CategoryCount: len(categoryMap),
			OrderCount:    len(orders),
			Totals:        analytics.Totals,
			LastSyncID:    jobID,
			LastSyncedAt:  now,
		}},
		{models.DocCredentials, &creds},
	}

	written := make([]string, 0, len(docs))
	for _, d := range docs {
		if err := s.docs.Put(ctx, ownerID, d.name, d.body); err != nil {
			return nil, fmt.Errorf("failed to persist %s document: %w", d.name, err)
		}
		written = append(written, d.name)
	}

	return &models.SyncResult{
		ProductCount:  len(productMap),
		CategoryCount: len(categoryMap),
		OrderCount:    len(orders),
		Documents:     written,
	}, nil
}

// writeStatus performs a best-effort progress update. A failed write is
// logged and counted but never interrupts the running sync.
func (s *SyncService) writeStatus(ctx context.Context, ownerID, jobID string, progress int, message string) {
	job := &models.SyncJob{
		ID:          jobID,
		SyncVersion: models.SyncVersion,
		Status:      models.JobStatusProcessing,
		Progress:    progress,
		Message:     message,
		UpdatedAt:   time.Now().UTC(),
	}
	var existing models.SyncJob
	if err := s.docs.Get(ctx, ownerID, models.DocSyncStatus, &existing); err == nil && existing.ID == jobID {
		job.StartedAt = existing.StartedAt
		if existing.Progress > job.Progress {
			job.Progress = existing.Progress
		}
	}
	if err := s.docs.Put(ctx, ownerID, models.DocSyncStatus, job); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"ownerId": ownerID, "jobId": jobID}).Warn("Status write failed, continuing")
		util.StatusWriteFailures.Inc()
	}
}

func (s *SyncService) fail(ctx context.Context, ownerID, jobID, stage, message string) {
	util.SyncsFailedTotal.WithLabelValues(stage).Inc()
	completed := time.Now().UTC()
	job := &models.SyncJob{
		ID:          jobID,
		SyncVersion: models.SyncVersion,
		Status:      models.JobStatusFailed,
		Message:     "Sync failed",
		Error:       message,
		UpdatedAt:   completed,
		CompletedAt: &completed,
	}
	var existing models.SyncJob
	if err := s.docs.Get(ctx, ownerID, models.DocSyncStatus, &existing); err == nil && existing.ID == jobID {
		job.StartedAt = existing.StartedAt
		job.Progress = existing.Progress
	}
	if err := s.docs.Put(ctx, ownerID, models.DocSyncStatus, job); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"ownerId": ownerID, "jobId": jobID}).Error("Failed to record failed status")
		util.StatusWriteFailures.Inc()
	}
}

func variableParents(rawProducts []woocommerce.RawProduct) []int {
	ids := make([]int, 0)
	for _, p := range rawProducts {
		if p.Type == "variable" && len(p.Variations) > 0 {
			ids = append(ids, p.ID)
		}
	}
	sort.Ints(ids)
	return ids
}
