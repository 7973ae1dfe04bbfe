package woocommerce

import (
	"fmt"
	"net/http"
)

// ProductPayload is the create/update body for /wc/v3/products. Prices go
// over the wire as strings per WooCommerce convention.
type ProductPayload struct {
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	RegularPrice  string        `json:"regular_price"`
	Description   string        `json:"description,omitempty"`
	SKU           string        `json:"sku,omitempty"`
	ManageStock   bool          `json:"manage_stock"`
	StockQuantity int           `json:"stock_quantity"`
	Categories    []CategoryRef `json:"categories,omitempty"`
	Images        []ImageRef    `json:"images,omitempty"`
}

type CategoryRef struct {
	ID int `json:"id"`
}

type ImageRef struct {
	ID int64 `json:"id"`
}

// Product is the subset of the store's product response we care about.
type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Permalink string `json:"permalink"`
	Status    string `json:"status"`
}

// Category is one entry of /wc/v3/products/categories.
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Parent int    `json:"parent"`
	Count  int    `json:"count"`
}

// APIError is a non-2xx response from the store. The status code is kept
// so callers can distinguish auth rejections from ordinary failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.StatusCode, e.Message)
}

// IsAuth reports whether the store rejected our credentials.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
