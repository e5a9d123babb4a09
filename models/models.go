package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a tracked product, keyed by its canonical page URL
type Product struct {
	ID           string          `json:"id" db:"id"`
	URL          string          `json:"url" db:"url"`
	Title        string          `json:"title" db:"title"`
	Store        string          `json:"store" db:"store"`
	ExternalID   *string         `json:"external_id" db:"external_id"`
	CurrentPrice decimal.Decimal `json:"current_price" db:"current_price"`
	Currency     string          `json:"currency" db:"currency"`
	ImageURL     *string         `json:"image_url" db:"image_url"`
	InStock      bool            `json:"in_stock" db:"in_stock"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	LastChecked  time.Time       `json:"last_checked" db:"last_checked"`
}

// PriceObservation is one point of a product's price history.
// History is append-only; observations are never rewritten.
type PriceObservation struct {
	ID         int64           `json:"id" db:"id"`
	ProductID  string          `json:"product_id" db:"product_id"`
	Price      decimal.Decimal `json:"price" db:"price"`
	InStock    bool            `json:"in_stock" db:"in_stock"`
	ObservedAt time.Time       `json:"observed_at" db:"observed_at"`
}

// OfferEvent records a qualifying price drop for a product.
// It is mutated exactly twice after creation: once to attach the
// affiliate link and once to flip Notified, then stays immutable.
type OfferEvent struct {
	ID              int64           `json:"id" db:"id"`
	ProductID       string          `json:"product_id" db:"product_id"`
	OldPrice        decimal.Decimal `json:"old_price" db:"old_price"`
	NewPrice        decimal.Decimal `json:"new_price" db:"new_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	IsError         bool            `json:"is_error" db:"is_error"`
	Notified        bool            `json:"notified" db:"notified"`
	AffiliateLink   *string         `json:"affiliate_link" db:"affiliate_link"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	// Populated by joined queries
	Product *Product `json:"product,omitempty" db:"-"`
}

// Savings returns the absolute amount saved by the drop
func (e *OfferEvent) Savings() decimal.Decimal {
	return e.OldPrice.Sub(e.NewPrice)
}

// Stats summarizes the tracked catalogue
type Stats struct {
	TotalProducts   int          `json:"total_products"`
	TotalOffers     int          `json:"total_offers"`
	ErrorPriceCount int          `json:"error_price_count"`
	PerStoreCounts  []StoreCount `json:"per_store_counts"`
}

// StoreCount is the number of tracked products for one store
type StoreCount struct {
	Store string `json:"store"`
	Count int    `json:"count"`
}

// TrackRequest is the request to start tracking a product URL
type TrackRequest struct {
	URL string `json:"url"`
}

// DiscoveryRequest is the request to run auto-discovery manually
type DiscoveryRequest struct {
	MaxPerSearch int `json:"max_per_search"`
}

// SearchTrackRequest is the request to search the catalogue by name and
// start tracking the top results. AutoTrack defaults to true when omitted.
type SearchTrackRequest struct {
	Query     string `json:"query"`
	AutoTrack *bool  `json:"auto_track"`
}

// CategoryDiscoveryRequest is the request to discover products from one
// Mercado Libre catalogue category
type CategoryDiscoveryRequest struct {
	CategoryID string `json:"category_id"`
	Limit      int    `json:"limit"`
}

// DiscoveryResult reports what a discovery run found
type DiscoveryResult struct {
	TotalDiscovered int `json:"total_discovered"`
	TotalTracked    int `json:"total_tracked"`
}
