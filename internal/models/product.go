package models

import "time"

// ProductType enumerates the product shapes WooCommerce can return
type ProductType string

const (
	ProductTypeSimple    ProductType = "simple"
	ProductTypeVariable  ProductType = "variable"
	ProductTypeVariation ProductType = "variation"
	ProductTypeExternal  ProductType = "external"
	ProductTypeGrouped   ProductType = "grouped"
)

// StockStatus enumerates inventory availability states
type StockStatus string

const (
	StockStatusInStock     StockStatus = "instock"
	StockStatusOutOfStock  StockStatus = "outofstock"
	StockStatusOnBackorder StockStatus = "onbackorder"
)

// Product is the canonical, storage-schema representation of a WooCommerce
// product or variation after normalization.
type Product struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	SKU              string      `json:"sku"`
	Type             ProductType `json:"type"`
	Status           string      `json:"status"`
	Permalink        string      `json:"permalink,omitempty"`

	// Pricing
	Price          float64    `json:"price"`
	RegularPrice   float64    `json:"regular_price"`
	SalePrice      float64    `json:"sale_price"`
	OnSale         bool       `json:"on_sale"`
	DateOnSaleFrom *time.Time `json:"date_on_sale_from,omitempty"`
	DateOnSaleTo   *time.Time `json:"date_on_sale_to,omitempty"`

	// Inventory
	StockStatus   StockStatus `json:"stock_status"`
	StockQuantity *int        `json:"stock_quantity,omitempty"`
	Backorders    string      `json:"backorders"`

	// Physical attributes
	Weight     string     `json:"weight,omitempty"`
	Dimensions Dimensions `json:"dimensions"`

	// Taxonomy
	CategoryIDs []int          `json:"category_ids"`
	TagIDs      []int          `json:"tag_ids"`
	Categories  []TermRef      `json:"categories,omitempty"`
	Tags        []TermRef      `json:"tags,omitempty"`
	Attributes  []Attribute    `json:"attributes,omitempty"`
	Images      []ProductImage `json:"images,omitempty"`

	// Free text (HTML-formatted)
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`

	// Variation linkage. ParentID is set only on variation records;
	// Variations is set only on variable parents with at least one
	// resolved child.
	ParentID   int   `json:"parent_id,omitempty"`
	Variations []int `json:"variations,omitempty"`

	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

// Dimensions carries physical product dimensions as reported by the store
type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// TermRef is an embedded category or tag reference retained for display
type TermRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Attribute is a product attribute (e.g. Color: Red, Blue)
type Attribute struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
}

// ProductImage is a product image reference
type ProductImage struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Category is a normalized WooCommerce product category. Children is
// computed during sync as the inverse of the Parent edges.
type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Parent    int    `json:"parent"`
	Display   string `json:"display"`
	Image     string `json:"image,omitempty"`
	MenuOrder int    `json:"menu_order"`
	Count     int    `json:"count"`
	Children  []int  `json:"children"`
}
