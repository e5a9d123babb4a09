package tracker

import (
	"fmt"
	"log"
	"time"
)

// CleanupOlderThan removes products whose last check is older than the
// given number of days. Observations and offer events cascade with the
// product. Returns how many products were removed.
func (t *Tracker) CleanupOlderThan(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	stale, err := t.products.ListProductsOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale products: %v", err)
	}

	removed := 0
	for _, product := range stale {
		if err := t.products.DeleteProduct(product.ID); err != nil {
			log.Printf("Failed to remove stale product %s: %v", product.ID, err)
			continue
		}
		removed++
		log.Printf("🗑️  Removed stale product: %s", product.Title)
	}

	return removed, nil
}
