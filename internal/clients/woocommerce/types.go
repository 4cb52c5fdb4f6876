package woocommerce

import (
	"bytes"
	"time"
)

// Time handles the store's ISO8601 timestamps, which come back without a
// timezone suffix (site-local) and occasionally as null.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}

// RawProduct is a product or variation record as returned by the store's
// REST API, before normalization. Variation responses reuse the same shape
// with a reduced field set; fetched variations are tagged with ParentID and
// Type "variation" by the fetcher.
type RawProduct struct {
	ID               int            `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Permalink        string         `json:"permalink"`
	SKU              string         `json:"sku"`
	Type             string         `json:"type"`
	Status           string         `json:"status"`
	Price            string         `json:"price"`
	RegularPrice     string         `json:"regular_price"`
	SalePrice        string         `json:"sale_price"`
	OnSale           bool           `json:"on_sale"`
	DateOnSaleFrom   *Time          `json:"date_on_sale_from"`
	DateOnSaleTo     *Time          `json:"date_on_sale_to"`
	StockStatus      string         `json:"stock_status"`
	StockQuantity    *int           `json:"stock_quantity"`
	Backorders       string         `json:"backorders"`
	Weight           string         `json:"weight"`
	Dimensions       RawDimensions  `json:"dimensions"`
	Categories       []RawTerm      `json:"categories"`
	Tags             []RawTerm      `json:"tags"`
	Attributes       []RawAttribute `json:"attributes"`
	Images           []RawImage     `json:"images"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"short_description"`
	ParentID         int            `json:"parent_id"`
	Variations       []int          `json:"variations"`
	DateCreated      Time           `json:"date_created"`
	DateModified     Time           `json:"date_modified"`
}

// RawDimensions mirrors the store's string-typed dimension triple
type RawDimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// RawTerm is an embedded category/tag object on a product
type RawTerm struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RawAttribute absorbs both product attributes (Options list) and variation
// attributes (single Option).
type RawAttribute struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Option    string   `json:"option"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
}

// RawImage is a product image object
type RawImage struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// RawCategory is a product category as returned by /products/categories
type RawCategory struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Parent    int    `json:"parent"`
	Display   string `json:"display"`
	Image     *RawImage `json:"image"`
	MenuOrder int    `json:"menu_order"`
	Count     int    `json:"count"`
}

// RawOrder is an order as returned by /orders
type RawOrder struct {
	ID            int           `json:"id"`
	Status        string        `json:"status"`
	Currency      string        `json:"currency"`
	Total         string        `json:"total"`
	TotalTax      string        `json:"total_tax"`
	ShippingTotal string        `json:"shipping_total"`
	DiscountTotal string        `json:"discount_total"`
	Billing       RawBilling    `json:"billing"`
	LineItems     []RawLineItem `json:"line_items"`
	DateCreated   Time          `json:"date_created"`
}

// RawBilling carries the order's billing block; only the PII-minimized
// subset survives normalization.
type RawBilling struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

// RawLineItem is a purchased line on an order. Price comes back as a JSON
// number, the money totals as strings.
type RawLineItem struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	ProductID   int     `json:"product_id"`
	VariationID int     `json:"variation_id"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    string  `json:"subtotal"`
	Total       string  `json:"total"`
}
