package woocommerce

import "fmt"

// ConnectivityError indicates the store's REST API could not be reached or
// rejected our credentials. It is fatal: the orchestrator aborts the sync
// and surfaces the message verbatim in the job record.
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach store API at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the store
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("WooCommerce API error (status %d): %s", e.StatusCode, e.Body)
}
