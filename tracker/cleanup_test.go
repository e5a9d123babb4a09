package tracker

import (
	"testing"
	"time"

	"dealwatch/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRemovesOnlyStaleProducts(t *testing.T) {
	products := newFakeProducts()

	stale := &models.Product{
		ID:           "stale",
		URL:          "https://www.amazon.com.mx/dp/OLD",
		Title:        "Producto olvidado",
		Store:        "amazon",
		CurrentPrice: decimal.RequireFromString("100"),
	}
	products.byURL[stale.URL] = stale
	stale.LastChecked = time.Now().AddDate(0, 0, -45)

	fresh := &models.Product{
		ID:           "fresh",
		URL:          "https://www.amazon.com.mx/dp/NEW",
		Title:        "Producto vigente",
		Store:        "amazon",
		CurrentPrice: decimal.RequireFromString("200"),
	}
	products.byURL[fresh.URL] = fresh
	fresh.LastChecked = time.Now()

	tr := newTestTracker(products, &fakeOffers{}, &stubSource{})

	removed, err := tr.CleanupOlderThan(30)
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.NotContains(t, products.byURL, stale.URL)
	assert.Contains(t, products.byURL, fresh.URL)
}

func TestCleanupNothingStale(t *testing.T) {
	products := newFakeProducts()
	fresh := &models.Product{
		ID:          "fresh",
		URL:         "https://www.walmart.com.mx/ip/item/1",
		Title:       "Producto vigente",
		Store:       "walmart",
		LastChecked: time.Now(),
	}
	products.byURL[fresh.URL] = fresh

	tr := newTestTracker(products, &fakeOffers{}, &stubSource{})

	removed, err := tr.CleanupOlderThan(30)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, products.byURL, 1)
}
