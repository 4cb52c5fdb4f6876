package models

import "time"

// Order is the analytics-only canonical order. Billing data is reduced to
// the minimum the analytics aggregator needs.
type Order struct {
	ID          int            `json:"id"`
	Status      string         `json:"status"`
	Currency    string         `json:"currency"`
	Subtotal    float64        `json:"subtotal"`
	TotalTax    float64        `json:"total_tax"`
	Shipping    float64        `json:"shipping_total"`
	Discount    float64        `json:"discount_total"`
	Total       float64        `json:"total"`
	Billing     BillingSummary `json:"billing"`
	LineItems   []LineItem     `json:"line_items"`
	DateCreated time.Time      `json:"date_created"`
}

// BillingSummary keeps only the non-sensitive subset of billing data
type BillingSummary struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country,omitempty"`
}

// LineItem is a single purchased product line on an order
type LineItem struct {
	ProductID   int     `json:"product_id"`
	VariationID int     `json:"variation_id,omitempty"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}
