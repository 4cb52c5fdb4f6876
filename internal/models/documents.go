package models

import "time"

// SyncVersion tags every persisted document so readers can detect
// snapshots written by an older pipeline.
const SyncVersion = "2.0"

// Document names under an owner's partition. The sync overwrites all of
// them on every run; sync-status is additionally overwritten after every
// stage.
const (
	DocProducts      = "products"
	DocCategories    = "categories"
	DocOrders        = "orders"
	DocIndexCategory = "index-category"
	DocIndexStatus   = "index-status"
	DocIndexType     = "index-type"
	DocIndexSearch   = "index-search"
	DocAnalytics     = "analytics"
	DocMetadata      = "metadata"
	DocSyncStatus    = "sync-status"
	DocCredentials   = "credentials"
)

// ProductsDocument is the denormalized product snapshot, keyed by product id
type ProductsDocument struct {
	SyncVersion string             `json:"sync_version"`
	Products    map[string]Product `json:"products"`
	Total       int                `json:"total"`
	LastUpdated time.Time          `json:"last_updated"`
}

// CategoriesDocument is the category snapshot plus the parent->children map
type CategoriesDocument struct {
	SyncVersion string              `json:"sync_version"`
	Categories  map[string]Category `json:"categories"`
	Hierarchy   map[string][]int    `json:"hierarchy"`
	Total       int                 `json:"total"`
	LastUpdated time.Time           `json:"last_updated"`
}

// OrdersDocument is the raw analytics input snapshot
type OrdersDocument struct {
	SyncVersion string    `json:"sync_version"`
	Orders      []Order   `json:"orders"`
	Total       int       `json:"total"`
	LastUpdated time.Time `json:"last_updated"`
}

// UncategorizedBucket is the reserved category-index bucket for products
// that carry no category ids.
const UncategorizedBucket = "uncategorized"

// IndexDocument is one derived lookup map (bucket -> product ids). The id
// lists are sorted so re-deriving the index from the same snapshot is
// byte-identical apart from LastUpdated.
type IndexDocument struct {
	SyncVersion string           `json:"sync_version"`
	Index       map[string][]int `json:"index"`
	LastUpdated time.Time        `json:"last_updated"`
}

// RevenueMetrics is a count/revenue/AOV triple, rounded to 2 decimals
type RevenueMetrics struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// ProductRevenue ranks one product by summed line-item revenue
type ProductRevenue struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// StatusMetrics is the per-status breakdown over all order statuses
type StatusMetrics struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// MonthlyTrend is one entry of the 12-month trailing trend series
type MonthlyTrend struct {
	Month             string  `json:"month"` // YYYY-MM
	OrderCount        int     `json:"order_count"`
	Revenue           float64 `json:"revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// AnalyticsDocument is the summary analytics snapshot derived from orders
type AnalyticsDocument struct {
	SyncVersion   string                   `json:"sync_version"`
	Totals        RevenueMetrics           `json:"totals"`
	CurrentMonth  RevenueMetrics           `json:"current_month"`
	TopProducts   []ProductRevenue         `json:"top_products"`
	StatusSummary map[string]StatusMetrics `json:"status_summary"`
	MonthlyTrends []MonthlyTrend           `json:"monthly_trends"`
	LastUpdated   time.Time                `json:"last_updated"`
}

// MetadataDocument combines counts with analytics and sync headers for the
// storefront dashboard.
type MetadataDocument struct {
	SyncVersion   string         `json:"sync_version"`
	StoreURL      string         `json:"store_url"`
	ProductCount  int            `json:"product_count"`
	CategoryCount int            `json:"category_count"`
	OrderCount    int            `json:"order_count"`
	Totals        RevenueMetrics `json:"totals"`
	LastSyncID    string         `json:"last_sync_id"`
	LastSyncedAt  time.Time      `json:"last_synced_at"`
}

// JobStatus represents the lifecycle state of a sync job
type JobStatus string

const (
	JobStatusStarted    JobStatus = "started"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status ends the job lifecycle
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// SyncResult summarizes a completed sync
type SyncResult struct {
	ProductCount   int      `json:"product_count"`
	VariationCount int      `json:"variation_count"`
	CategoryCount  int      `json:"category_count"`
	OrderCount     int      `json:"order_count"`
	Documents      []string `json:"documents"`
}

// SyncJob is the persisted progress/status record for one extraction run.
// It is overwritten in place after every stage and read by polling clients.
type SyncJob struct {
	ID          string      `json:"id"`
	SyncVersion string      `json:"sync_version"`
	Status      JobStatus   `json:"status"`
	Progress    int         `json:"progress"` // 0-100, monotonic
	Message     string      `json:"message"`  // display only, not machine-parseable
	Error       string      `json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Result      *SyncResult `json:"result,omitempty"`
}

// StoreCredentials is written once per successful sync and read back on
// resync requests.
type StoreCredentials struct {
	StoreURL       string    `json:"store_url"`
	ConsumerKey    string    `json:"consumer_key"`
	ConsumerSecret string    `json:"consumer_secret"`
	SavedAt        time.Time `json:"saved_at"`
}
