package tracker

import (
	"context"
	"errors"
	"log"
	"time"

	"dealwatch/models"
	"dealwatch/repository"
	"dealwatch/scraper"

	"github.com/shopspring/decimal"
)

// popularSearchTerms drive automatic discovery of products worth
// tracking. Biased towards categories where price errors show up.
var popularSearchTerms = []string{
	// Electronics
	"iphone", "samsung galaxy", "airpods", "apple watch",
	"ps5", "xbox series", "nintendo switch",
	"laptop", "macbook", "ipad", "tablet",
	"audifonos bluetooth", "smart tv", "monitor",

	// Home & kitchen
	"air fryer", "licuadora", "cafetera", "aspiradora", "colchon",

	// Sports
	"bicicleta", "tenis nike", "tenis adidas", "pesas",

	// Fashion
	"reloj", "lentes de sol", "perfume", "mochila",

	// Toys
	"lego", "hot wheels", "funko pop",

	// Tools
	"taladro", "herramientas",
}

// Searcher is the catalogue-search collaborator used for discovery
type Searcher interface {
	Search(ctx context.Context, query, site string, limit int, category string) ([]scraper.MLItem, error)
}

// Discovery finds new products by searching the Mercado Libre
// catalogue for popular terms and tracking promising results.
type Discovery struct {
	search   Searcher
	tracker  *Tracker
	products ProductStore

	MinPrice decimal.Decimal
	// Delay paces catalogue requests; tests inject zero
	Delay time.Duration
}

func NewDiscovery(search Searcher, tracker *Tracker, products ProductStore, minPrice decimal.Decimal, delay time.Duration) *Discovery {
	return &Discovery{
		search:   search,
		tracker:  tracker,
		products: products,
		MinPrice: minPrice,
		Delay:    delay,
	}
}

// Run searches every popular term and tracks up to maxPerSearch new
// products per term. Errors on one term or product never stop the run.
func (d *Discovery) Run(ctx context.Context, maxPerSearch int) (*models.DiscoveryResult, error) {
	if maxPerSearch <= 0 {
		maxPerSearch = 3
	}

	result := &models.DiscoveryResult{}

	for _, term := range popularSearchTerms {
		items, err := d.search.Search(ctx, term, "MLM", 20, "")
		if err != nil {
			log.Printf("Discovery search %q failed: %v", term, err)
			continue
		}

		deals := d.filterDeals(items, maxPerSearch)
		result.TotalDiscovered += len(deals)

		for _, item := range deals {
			tracked, err := d.trackNew(ctx, item)
			if err != nil {
				log.Printf("Discovery could not track %q: %v", item.Title, err)
				continue
			}
			if tracked {
				result.TotalTracked++
			}
			time.Sleep(d.Delay)
		}

		time.Sleep(d.Delay)
	}

	log.Printf("✅ Discovery complete: %d found, %d newly tracked",
		result.TotalDiscovered, result.TotalTracked)
	return result, nil
}

// SearchAndTrack runs one catalogue search and starts tracking up to
// maxTrack of the top results. Already-tracked results are returned
// alongside the newly tracked ones so the caller sees the full set.
func (d *Discovery) SearchAndTrack(ctx context.Context, query string, maxTrack int) ([]scraper.MLItem, []models.Product, error) {
	items, err := d.search.Search(ctx, query, "MLM", 10, "")
	if err != nil {
		return nil, nil, err
	}

	if maxTrack <= 0 {
		maxTrack = 3
	}
	top := items
	if len(top) > maxTrack {
		top = top[:maxTrack]
	}

	var tracked []models.Product
	for _, item := range top {
		if item.Permalink == "" {
			continue
		}

		existing, err := d.products.FindProductByURL(item.Permalink)
		if err == nil {
			tracked = append(tracked, *existing)
			continue
		}
		if !errors.Is(err, repository.ErrProductNotFound) {
			log.Printf("Search-track lookup failed for %q: %v", item.Title, err)
			continue
		}

		product, err := d.tracker.Track(ctx, item.Permalink)
		if err != nil {
			log.Printf("Search-track could not track %q: %v", item.Title, err)
			continue
		}
		log.Printf("✅ Now tracking: %s", product.Title)
		tracked = append(tracked, *product)
		time.Sleep(d.Delay)
	}

	return items, tracked, nil
}

// RunCategory discovers products from one catalogue category
func (d *Discovery) RunCategory(ctx context.Context, categoryID string, limit int) (*models.DiscoveryResult, error) {
	items, err := d.search.Search(ctx, "", "MLM", limit, categoryID)
	if err != nil {
		return nil, err
	}

	result := &models.DiscoveryResult{TotalDiscovered: len(items)}
	for _, item := range items {
		tracked, err := d.trackNew(ctx, item)
		if err != nil {
			log.Printf("Discovery could not track %q: %v", item.Title, err)
			continue
		}
		if tracked {
			result.TotalTracked++
		}
		time.Sleep(d.Delay)
	}
	return result, nil
}

// filterDeals keeps listings that look like genuine, deliverable
// offers: free shipping, in stock, priced above the junk floor, and
// sold by a reputable seller.
func (d *Discovery) filterDeals(items []scraper.MLItem, max int) []scraper.MLItem {
	var deals []scraper.MLItem
	for _, item := range items {
		if !item.Shipping.FreeShipping {
			continue
		}
		if item.Price.LessThan(d.MinPrice) {
			continue
		}
		if item.AvailableQuantity == 0 {
			continue
		}
		status := item.SellerReputation.PowerSellerStatus
		if status != "platinum" && status != "gold" {
			continue
		}
		deals = append(deals, item)
		if len(deals) == max {
			break
		}
	}
	return deals
}

// trackNew tracks an item unless its URL is already known
func (d *Discovery) trackNew(ctx context.Context, item scraper.MLItem) (bool, error) {
	if item.Permalink == "" {
		return false, nil
	}

	_, err := d.products.FindProductByURL(item.Permalink)
	if err == nil {
		return false, nil // already tracking
	}
	if !errors.Is(err, repository.ErrProductNotFound) {
		return false, err
	}

	if _, err := d.tracker.Track(ctx, item.Permalink); err != nil {
		return false, err
	}
	return true, nil
}
