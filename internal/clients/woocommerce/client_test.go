package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		CallTimeout:      5 * time.Second,
		PageDelay:        time.Millisecond,
		VariationTimeout: 5 * time.Second,
		VariationBudget:  time.Minute,
		OrderWindow:      365 * 24 * time.Hour,
		Retry: &RetryConfig{
			MaxRetries:     0,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
			BackoffFactor:  1,
		},
	}
}

func testClient(serverURL string) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(serverURL, "ck_test", "cs_test", testOptions(), logger)
}

func genProducts(startID, n int) []RawProduct {
	products := make([]RawProduct, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, RawProduct{ID: startID + i, Name: fmt.Sprintf("Product %d", startID+i)})
	}
	return products
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchProductsAdoptsWorkingStrategy(t *testing.T) {
	// Only per_page=20 returns data; the larger candidates come back empty
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wc/v3/products", r.URL.Path)
		assert.Equal(t, "ck_test", r.URL.Query().Get("consumer_key"))

		if r.URL.Query().Get("per_page") != "20" {
			writeJSON(w, []RawProduct{})
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(w, genProducts(1, 20))
		case "2":
			writeJSON(w, genProducts(21, 20))
		case "3":
			writeJSON(w, genProducts(41, 20))
		default:
			writeJSON(w, []RawProduct{})
		}
	}))
	defer server.Close()

	products, err := testClient(server.URL).FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 60)

	seen := make(map[int]bool)
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
}

func TestFetchProductsDuplicatePageGuard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("per_page") != "20" {
			writeJSON(w, []RawProduct{})
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(w, genProducts(1, 20))
		case "2", "3", "4":
			// The store loops back to the same page instead of advancing
			writeJSON(w, genProducts(21, 20))
		default:
			writeJSON(w, []RawProduct{})
		}
	}))
	defer server.Close()

	products, err := testClient(server.URL).FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 40)

	seen := make(map[int]bool)
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
}

func TestFetchProductsShortPageStops(t *testing.T) {
	var productCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		productCalls++
		writeJSON(w, genProducts(1, 5))
	}))
	defer server.Close()

	products, err := testClient(server.URL).FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
	// First probe candidate succeeded and its short page ended pagination
	assert.Equal(t, 1, productCalls)
}

func TestFetchProductsNoStrategyYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []RawProduct{})
	}))
	defer server.Close()

	products, err := testClient(server.URL).FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchProductsMidPaginationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("per_page") != "100" || r.URL.Query().Get("status") != "publish" {
			writeJSON(w, []RawProduct{})
			return
		}
		if r.URL.Query().Get("page") == "1" {
			writeJSON(w, genProducts(1, 100))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchProducts(context.Background())
	require.Error(t, err)
	var connErr *ConnectivityError
	assert.ErrorAs(t, err, &connErr)
}

func TestPreflight(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wc/v3/system_status", r.URL.Path)
		writeJSON(w, map[string]interface{}{"environment": map[string]string{}})
	}))
	defer server.Close()

	assert.NoError(t, testClient(server.URL).Preflight(context.Background()))
}

func TestPreflightRejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := testClient(server.URL).Preflight(context.Background())
	require.Error(t, err)
	var connErr *ConnectivityError
	assert.ErrorAs(t, err, &connErr)
}

func TestFetchCategoriesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wc/v3/products/categories", r.URL.Path)
		switch r.URL.Query().Get("page") {
		case "1":
			batch := make([]RawCategory, 100)
			for i := range batch {
				batch[i] = RawCategory{ID: i + 1}
			}
			writeJSON(w, batch)
		case "2":
			writeJSON(w, []RawCategory{{ID: 101}, {ID: 102}, {ID: 103}})
		default:
			writeJSON(w, []RawCategory{})
		}
	}))
	defer server.Close()

	categories, err := testClient(server.URL).FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 103)
}

func TestFetchOrdersWindowAndStop(t *testing.T) {
	var gotAfter, gotOrderBy string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wc/v3/orders", r.URL.Path)
		gotAfter = r.URL.Query().Get("after")
		gotOrderBy = r.URL.Query().Get("orderby")
		writeJSON(w, []RawOrder{
			{ID: 2, Status: "completed", Total: "10.00"},
			{ID: 1, Status: "processing", Total: "5.00"},
		})
	}))
	defer server.Close()

	orders, err := testClient(server.URL).FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "date", gotOrderBy)

	after, err := time.Parse(time.RFC3339, gotAfter)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(-365*24*time.Hour), after, time.Minute)
}

func TestFetchAllVariationsSkipsFailingParent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wc/v3/products/7/variations":
			writeJSON(w, []RawProduct{{ID: 71}, {ID: 72}})
		case "/wp-json/wc/v3/products/8/variations":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	result := testClient(server.URL).FetchAllVariations(context.Background(), []int{7, 8})
	require.Len(t, result, 1)
	require.Len(t, result[7], 2)
	assert.Equal(t, 7, result[7][0].ParentID)
	assert.Equal(t, "variation", result[7][0].Type)
	_, ok := result[8]
	assert.False(t, ok)
}
