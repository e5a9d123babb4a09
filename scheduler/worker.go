package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"dealwatch/config"
	"dealwatch/models"

	"github.com/robfig/cron/v3"
)

// ProductTracker re-checks one product URL
type ProductTracker interface {
	Track(ctx context.Context, url string) (*models.Product, error)
	CleanupOlderThan(days int) (int, error)
}

// ProductLister lists the products scheduled for a store's run
type ProductLister interface {
	ListProductsByStore(store string) ([]models.Product, error)
}

// OfferDispatcher drains pending offer notifications
type OfferDispatcher interface {
	Run(ctx context.Context) error
}

// Discoverer hunts for new products to track
type Discoverer interface {
	Run(ctx context.Context, maxPerSearch int) (*models.DiscoveryResult, error)
}

// otherStores are re-scraped together on the base interval. Mercado
// Libre and Amazon run on their own intervals.
var otherStores = []string{
	"liverpool", "walmart", "sams", "soriana", "coppel", "sears",
	"apple", "samsung", "hp", "xiaomi", "sony", "bestbuy",
	"costco", "elektra", "sanborns", "officedepot", "unknown",
}

// Worker drives all periodic jobs: per-store scrape runs, the offer
// dispatcher, discovery and the retention sweep.
type Worker struct {
	cron       *cron.Cron
	tracker    ProductTracker
	products   ProductLister
	dispatcher OfferDispatcher
	discovery  Discoverer
	cfg        *config.Config

	// delay paces sequential requests within one store run;
	// tests inject zero
	delay   time.Duration
	timeout time.Duration
}

func NewWorker(tracker ProductTracker, products ProductLister, dispatcher OfferDispatcher, discovery Discoverer, cfg *config.Config) *Worker {
	return &Worker{
		cron:       cron.New(),
		tracker:    tracker,
		products:   products,
		dispatcher: dispatcher,
		discovery:  discovery,
		cfg:        cfg,
		delay:      cfg.Scraping.RequestDelay,
		timeout:    cfg.Scraping.RequestTimeout,
	}
}

// Start registers and launches all cron jobs
func (w *Worker) Start() {
	log.Println("🚀 Starting workers...")

	// Offer dispatcher runs at high frequency so notifications go out
	// within a minute of detection.
	w.mustSchedule("* * * * *", func() {
		if err := w.dispatcher.Run(context.Background()); err != nil {
			log.Printf("[Worker] Error dispatching offers: %v", err)
		}
	})

	mlSpec := everyMinutes(w.cfg.Scraping.IntervalML)
	w.mustSchedule(mlSpec, func() {
		w.scrapeStore("mercadolibre")
	})

	w.mustSchedule(everyMinutes(w.cfg.Scraping.IntervalAmazon), func() {
		w.scrapeStore("amazon")
	})

	w.mustSchedule(mlSpec, func() {
		for _, store := range otherStores {
			w.scrapeStore(store)
		}
	})

	// Discovery every 2 hours
	w.mustSchedule("0 */2 * * *", func() {
		if _, err := w.discovery.Run(context.Background(), w.cfg.Discovery.MaxPerSearch); err != nil {
			log.Printf("[Worker] Error in discovery: %v", err)
		}
	})

	// Retention sweep daily at 3 AM
	w.mustSchedule("0 3 * * *", func() {
		removed, err := w.tracker.CleanupOlderThan(w.cfg.Retention.Days)
		if err != nil {
			log.Printf("[Worker] Error cleaning up: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("[Worker] Cleanup removed %d stale products", removed)
		}
	})

	w.cron.Start()

	log.Println("✅ Workers started")
	log.Println("  - Offer dispatcher: every minute")
	log.Printf("  - Mercado Libre scraper: every %d minutes", w.cfg.Scraping.IntervalML)
	log.Printf("  - Amazon scraper: every %d minutes", w.cfg.Scraping.IntervalAmazon)
	log.Println("  - Discovery: every 2 hours")
	log.Printf("  - Cleanup: daily at 3 AM (retention %d days)", w.cfg.Retention.Days)
}

// Stop halts the cron scheduler
func (w *Worker) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

func (w *Worker) mustSchedule(spec string, job func()) {
	if _, err := w.cron.AddFunc(spec, job); err != nil {
		log.Fatalf("Failed to schedule job %q: %v", spec, err)
	}
}

func everyMinutes(n int) string {
	if n <= 0 {
		n = 5
	}
	if n == 1 {
		return "* * * * *"
	}
	return fmt.Sprintf("*/%d * * * *", n)
}

// scrapeStore re-tracks every product of one store sequentially with a
// fixed inter-request delay. The serialization is deliberate pacing
// against rate limits; runs for different stores may overlap freely
// since they share no per-store state. One product's failure never
// aborts the rest of the run.
func (w *Worker) scrapeStore(store string) {
	products, err := w.products.ListProductsByStore(store)
	if err != nil {
		log.Printf("[Worker] Failed to list %s products: %v", store, err)
		return
	}
	if len(products) == 0 {
		return
	}

	log.Printf("[Worker] Scraping %d %s products", len(products), store)

	for _, product := range products {
		w.trackOne(product.URL, product.Title)
		time.Sleep(w.delay)
	}

	log.Printf("[Worker] Finished scraping %s products", store)
}

func (w *Worker) trackOne(url, title string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if _, err := w.tracker.Track(ctx, url); err != nil {
		log.Printf("[Worker] Error scraping %s: %v", title, err)
	}
}
