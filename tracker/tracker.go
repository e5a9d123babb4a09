package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dealwatch/models"
	"dealwatch/repository"
	"dealwatch/scraper"

	"github.com/google/uuid"
)

// ProductStore is the persistence surface the tracker needs
type ProductStore interface {
	FindProductByURL(url string) (*models.Product, error)
	CreateProduct(p *models.Product) error
	UpdateProduct(p *models.Product) error
	LatestObservation(productID string) (*models.PriceObservation, error)
	ListProductsByStore(store string) ([]models.Product, error)
	ListProductsOlderThan(cutoff time.Time) ([]models.Product, error)
	DeleteProduct(id string) error
	Stats() (*models.Stats, error)
}

// ExtractorSource yields the right extractor variant for a store
type ExtractorSource interface {
	ForStore(store string) scraper.Extractor
}

// Tracker drives the fetch → extract → upsert → detect pipeline for a
// single product URL.
type Tracker struct {
	products  ProductStore
	extractor ExtractorSource
	detector  *OfferDetector
}

func New(products ProductStore, extractor ExtractorSource, detector *OfferDetector) *Tracker {
	return &Tracker{
		products:  products,
		extractor: extractor,
		detector:  detector,
	}
}

// Track checks the product behind a URL: first call creates the
// product with its initial observation (never an offer), later calls
// refresh it, append one observation, and hand any price change to the
// offer detector.
func (t *Tracker) Track(ctx context.Context, url string) (*models.Product, error) {
	store, err := scraper.DetectStore(url)
	if err != nil {
		return nil, err
	}

	data, err := t.extractor.ForStore(store).Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	inStock := data.InStock == nil || *data.InStock

	existing, err := t.products.FindProductByURL(url)
	if err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}

		product := &models.Product{
			ID:           uuid.NewString(),
			URL:          url,
			Title:        data.Title,
			Store:        store,
			CurrentPrice: data.Price,
			Currency:     data.Currency,
			InStock:      inStock,
		}
		if data.ExternalID != "" {
			product.ExternalID = &data.ExternalID
		}
		if data.ImageURL != "" {
			product.ImageURL = &data.ImageURL
		}

		if err := t.products.CreateProduct(product); err != nil {
			return nil, err
		}

		log.Printf("[%s] New product tracked: %s", strings.ToUpper(store), data.Title)
		return product, nil
	}

	// Capture the previous price before the update appends the new
	// observation on top of it.
	prior, err := t.products.LatestObservation(existing.ID)
	if err != nil {
		return nil, err
	}

	existing.Title = data.Title
	existing.CurrentPrice = data.Price
	existing.Currency = data.Currency
	existing.InStock = inStock
	if data.ExternalID != "" {
		existing.ExternalID = &data.ExternalID
	}
	if data.ImageURL != "" {
		existing.ImageURL = &data.ImageURL
	}

	if err := t.products.UpdateProduct(existing); err != nil {
		return nil, err
	}

	log.Printf("[%s] Updated: %s - %s %s",
		strings.ToUpper(store), data.Title, data.Currency, data.Price.StringFixed(2))

	if prior != nil && !prior.Price.Equal(data.Price) {
		if _, err := t.detector.Detect(existing, prior.Price, data.Price); err != nil {
			// Offer persistence failure must not fail the tracking run
			log.Printf("Failed to record offer for %s: %v", url, err)
		}
	}

	return existing, nil
}

// GetStats reports catalogue totals for the API
func (t *Tracker) GetStats() (*models.Stats, error) {
	stats, err := t.products.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %v", err)
	}
	return stats, nil
}
