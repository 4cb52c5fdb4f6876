package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const apiBase = "/wp-json/wc/v3"

// Options tunes the fetch behavior of a Client
type Options struct {
	CallTimeout      time.Duration // per HTTP call
	PageDelay        time.Duration // courtesy delay between page requests
	VariationTimeout time.Duration // per variable-product parent
	VariationBudget  time.Duration // wall clock for the whole variation phase
	OrderWindow      time.Duration // trailing window for order extraction
	Retry            *RetryConfig
}

// DefaultOptions returns the settings used against live stores
func DefaultOptions() Options {
	return Options{
		CallTimeout:      30 * time.Second,
		PageDelay:        150 * time.Millisecond,
		VariationTimeout: 30 * time.Second,
		VariationBudget:  5 * time.Minute,
		OrderWindow:      365 * 24 * time.Hour,
	}
}

// pageStrategy is one candidate request shape for the product endpoint.
// The store's effective page size and default status filter are not
// guaranteed, so the fetcher probes these in order and adopts the first
// one that returns data.
type pageStrategy struct {
	PerPage int
	Status  string
}

// productStrategies is the probe order. Keep it explicit: tests exercise
// the list directly, and reordering changes live behavior.
var productStrategies = []pageStrategy{
	{PerPage: 100, Status: "publish"},
	{PerPage: 100, Status: "any"},
	{PerPage: 50, Status: "publish"},
	{PerPage: 20, Status: "any"},
	{PerPage: 10, Status: ""},
}

const (
	categoryPageSize = 100
	orderPageSize    = 100
	variationPageSize = 100
)

// Client talks to one WooCommerce store's REST API
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	limiter        *rate.Limiter
	retrier        *Retrier
	opts           Options
	logger         *logrus.Entry
}

// NewClient creates a client for the given store. The store URL may carry a
// trailing slash; credentials are the REST API consumer key/secret pair.
func NewClient(storeURL, consumerKey, consumerSecret string, opts Options, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.CallTimeout == 0 {
		opts = DefaultOptions()
	}
	return &Client{
		baseURL:        strings.TrimRight(storeURL, "/"),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient:     &http.Client{Timeout: opts.CallTimeout},
		limiter:        rate.NewLimiter(rate.Every(opts.PageDelay), 1),
		retrier:        NewRetrier(opts.Retry),
		opts:           opts,
		logger:         logger.WithField("component", "woocommerce-client"),
	}
}

// Preflight verifies the store is reachable and the credentials are
// accepted. It must succeed before any extraction; failure aborts the sync.
func (c *Client) Preflight(ctx context.Context) error {
	if _, err := c.get(ctx, "/system_status", nil); err != nil {
		return &ConnectivityError{Endpoint: c.baseURL + apiBase + "/system_status", Err: err}
	}
	return nil
}

// FetchProducts returns every product visible to the credentials. An empty
// result with a nil error means extraction was inconclusive (no probed
// request shape returned data), not that the store is empty of products.
func (c *Client) FetchProducts(ctx context.Context) ([]RawProduct, error) {
	strategy, firstPage := c.probeStrategy(ctx)
	if strategy == nil {
		c.logger.Warn("No pagination strategy returned data, treating product set as empty")
		return nil, nil
	}

	seen := make(map[int]bool, len(firstPage))
	products := make([]RawProduct, 0, len(firstPage))
	for _, p := range firstPage {
		if !seen[p.ID] {
			seen[p.ID] = true
			products = append(products, p)
		}
	}
	if len(firstPage) < strategy.PerPage {
		return products, nil
	}

	for page := 2; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		batch, err := c.productsPage(ctx, *strategy, page)
		if err != nil {
			return nil, &ConnectivityError{Endpoint: c.baseURL + apiBase + "/products", Err: err}
		}
		if len(batch) == 0 {
			break
		}

		// Some stores loop back to an earlier page instead of returning an
		// empty array. A fully-duplicated page means we are done -- but only
		// from page 3 onward, since page 2 legitimately repeats on a few
		// cache configurations.
		allSeen := true
		for _, p := range batch {
			if !seen[p.ID] {
				allSeen = false
				break
			}
		}
		if allSeen && page >= 3 {
			break
		}

		for _, p := range batch {
			if !seen[p.ID] {
				seen[p.ID] = true
				products = append(products, p)
			}
		}

		if len(batch) < strategy.PerPage {
			break
		}
	}

	return products, nil
}

// probeStrategy tries each candidate request shape against page 1 and
// adopts the first that returns a non-empty array. Candidate errors are
// logged and skipped: only the preflight call treats failures as fatal.
func (c *Client) probeStrategy(ctx context.Context) (*pageStrategy, []RawProduct) {
	for _, strategy := range productStrategies {
		batch, err := c.productsPage(ctx, strategy, 1)
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"per_page": strategy.PerPage,
				"status":   strategy.Status,
			}).Debug("Pagination candidate failed")
			continue
		}
		if len(batch) > 0 {
			s := strategy
			return &s, batch
		}
	}
	return nil, nil
}

func (c *Client) productsPage(ctx context.Context, strategy pageStrategy, page int) ([]RawProduct, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(strategy.PerPage))
	params.Set("page", strconv.Itoa(page))
	if strategy.Status != "" {
		params.Set("status", strategy.Status)
	}

	body, err := c.get(ctx, "/products", params)
	if err != nil {
		return nil, err
	}

	var batch []RawProduct
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse products page %d: %w", page, err)
	}
	return batch, nil
}

// FetchCategories returns all product categories via plain paged fetches
func (c *Client) FetchCategories(ctx context.Context) ([]RawCategory, error) {
	var categories []RawCategory
	for page := 1; ; page++ {
		if page > 1 {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(categoryPageSize))
		params.Set("page", strconv.Itoa(page))

		body, err := c.get(ctx, "/products/categories", params)
		if err != nil {
			return nil, &ConnectivityError{Endpoint: c.baseURL + apiBase + "/products/categories", Err: err}
		}

		var batch []RawCategory
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse categories page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		categories = append(categories, batch...)
		if len(batch) < categoryPageSize {
			break
		}
	}
	return categories, nil
}

// FetchVariations fetches the variation children of one variable product.
// The call is bounded by the per-parent timeout.
func (c *Client) FetchVariations(ctx context.Context, parentID int) ([]RawProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.VariationTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("per_page", strconv.Itoa(variationPageSize))

	body, err := c.get(ctx, fmt.Sprintf("/products/%d/variations", parentID), params)
	if err != nil {
		return nil, err
	}

	var variations []RawProduct
	if err := json.Unmarshal(body, &variations); err != nil {
		return nil, fmt.Errorf("failed to parse variations for product %d: %w", parentID, err)
	}

	for i := range variations {
		variations[i].ParentID = parentID
		variations[i].Type = "variation"
	}
	return variations, nil
}

// FetchAllVariations fetches variations for every parent in order. A parent
// whose fetch errors or times out is skipped; exceeding the phase budget
// truncates the remaining parents. Neither case fails the extraction.
func (c *Client) FetchAllVariations(ctx context.Context, parentIDs []int) map[int][]RawProduct {
	deadline := time.Now().Add(c.opts.VariationBudget)
	result := make(map[int][]RawProduct, len(parentIDs))

	for i, parentID := range parentIDs {
		if time.Now().After(deadline) {
			c.logger.WithFields(logrus.Fields{
				"fetched":   i,
				"remaining": len(parentIDs) - i,
			}).Warn("Variation phase budget exhausted, truncating remaining parents")
			break
		}
		if err := c.limiter.Wait(ctx); err != nil {
			break
		}
		variations, err := c.FetchVariations(ctx, parentID)
		if err != nil {
			c.logger.WithError(err).WithField("parent_id", parentID).
				Warn("Skipping variations for parent")
			continue
		}
		if len(variations) > 0 {
			result[parentID] = variations
		}
	}
	return result
}

// FetchOrders returns orders within the trailing order window, newest
// first. Unlike products, orders need no strategy probing: the endpoint's
// pagination is reliable, so extraction stops at the first short or empty
// page.
func (c *Client) FetchOrders(ctx context.Context) ([]RawOrder, error) {
	after := time.Now().Add(-c.opts.OrderWindow)
	var orders []RawOrder

	for page := 1; ; page++ {
		if page > 1 {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		params := url.Values{}
		params.Set("per_page", strconv.Itoa(orderPageSize))
		params.Set("page", strconv.Itoa(page))
		params.Set("after", after.UTC().Format(time.RFC3339))
		params.Set("orderby", "date")
		params.Set("order", "desc")

		body, err := c.get(ctx, "/orders", params)
		if err != nil {
			return nil, &ConnectivityError{Endpoint: c.baseURL + apiBase + "/orders", Err: err}
		}

		var batch []RawOrder
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse orders page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		orders = append(orders, batch...)
		if len(batch) < orderPageSize {
			break
		}
	}
	return orders, nil
}

// get performs an authenticated GET with retry on throttling responses.
// Credentials go in the query string, which works for both HTTP and HTTPS
// stores.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("consumer_key", c.consumerKey)
	params.Set("consumer_secret", c.consumerSecret)

	fullURL := c.baseURL + apiBase + path + "?" + params.Encode()

	resp, err := c.retrier.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
