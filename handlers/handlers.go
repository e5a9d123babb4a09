package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"dealwatch/models"
	"dealwatch/repository"
	"dealwatch/scraper"
	"dealwatch/tracker"

	"github.com/gorilla/mux"
)

type Handlers struct {
	products  *repository.ProductRepository
	offers    *repository.OfferRepository
	tracker   *tracker.Tracker
	discovery *tracker.Discovery
	search    *scraper.Scraper
}

func NewHandlers(products *repository.ProductRepository, offers *repository.OfferRepository, t *tracker.Tracker, discovery *tracker.Discovery, search *scraper.Scraper) *Handlers {
	return &Handlers{
		products:  products,
		offers:    offers,
		tracker:   t,
		discovery: discovery,
		search:    search,
	}
}

// HealthCheck returns a simple health check response
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "dealwatch",
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

// GetStats returns catalogue and offer totals
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tracker.GetStats()
	if err != nil {
		log.Printf("Failed to get stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// TrackProduct starts tracking a product URL (or re-checks it)
func (h *Handlers) TrackProduct(w http.ResponseWriter, r *http.Request) {
	var req models.TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	product, err := h.tracker.Track(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, scraper.ErrFetchFailed):
			writeError(w, http.StatusBadGateway, "Could not fetch the product page")
		case errors.Is(err, scraper.ErrExtractionIncomplete):
			writeError(w, http.StatusUnprocessableEntity, "Could not extract product data from this store")
		default:
			log.Printf("Failed to track %s: %v", req.URL, err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// A refreshed product keeps its original created_at while a brand
	// new one has both timestamps set together.
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"already_tracked": !product.CreatedAt.Equal(product.LastChecked),
		"product":         product,
	})
}

// GetProducts lists tracked products, optionally filtered by store
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	store := r.URL.Query().Get("store")
	limit := queryInt(r, "limit", 50)

	products, err := h.products.ListProducts(store, limit)
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct returns one product with its history and offers
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.products.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Printf("Failed to get product %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	history, err := h.products.ListObservations(id, queryInt(r, "limit", 50))
	if err != nil {
		log.Printf("Failed to get history for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get price history")
		return
	}

	offers, err := h.offers.ListOffersByProduct(id)
	if err != nil {
		log.Printf("Failed to get offers for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get offers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product": product,
		"prices":  history,
		"offers":  offers,
	})
}

// DeleteProduct stops tracking a product
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.products.DeleteProduct(id); err != nil {
		log.Printf("Failed to delete product %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SearchMercadoLibre passes a catalogue search through without
// tracking anything
func (h *Handlers) SearchMercadoLibre(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, `Query parameter "q" is required`)
		return
	}
	site := r.URL.Query().Get("site")
	limit := queryInt(r, "limit", 50)

	results, err := h.search.Search(r.Context(), query, site, limit, "")
	if err != nil {
		if errors.Is(err, scraper.ErrFetchFailed) {
			writeError(w, http.StatusBadGateway, "Could not reach the catalogue")
			return
		}
		log.Printf("Catalogue search %q failed: %v", query, err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// SearchAndTrackProducts searches the catalogue by name and starts
// tracking the top results
func (h *Handlers) SearchAndTrackProducts(w http.ResponseWriter, r *http.Request) {
	var req models.SearchTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}
	autoTrack := req.AutoTrack == nil || *req.AutoTrack

	var (
		results []scraper.MLItem
		tracked []models.Product
		err     error
	)
	if autoTrack {
		results, tracked, err = h.discovery.SearchAndTrack(r.Context(), req.Query, 3)
	} else {
		results, err = h.search.Search(r.Context(), req.Query, "MLM", 10, "")
	}
	if err != nil {
		if errors.Is(err, scraper.ErrFetchFailed) {
			writeError(w, http.StatusBadGateway, "Could not reach the catalogue")
			return
		}
		log.Printf("Search-track %q failed: %v", req.Query, err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"query":            req.Query,
		"results_found":    len(results),
		"tracked":          len(tracked),
		"results":          results,
		"tracked_products": tracked,
	})
}

// GetOffers lists detected offers
func (h *Handlers) GetOffers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	onlyErrors := r.URL.Query().Get("only_errors") == "true"

	offers, err := h.offers.ListOffers(limit, onlyErrors)
	if err != nil {
		log.Printf("Failed to list offers: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list offers")
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// RunDiscovery triggers an auto-discovery run manually
func (h *Handlers) RunDiscovery(w http.ResponseWriter, r *http.Request) {
	var req models.DiscoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.discovery.Run(r.Context(), req.MaxPerSearch)
	if err != nil {
		log.Printf("Discovery run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Discovery run failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// RunCategoryDiscovery discovers products from one catalogue category
func (h *Handlers) RunCategoryDiscovery(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryDiscoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CategoryID == "" {
		writeError(w, http.StatusBadRequest, "category_id is required")
		return
	}

	result, err := h.discovery.RunCategory(r.Context(), req.CategoryID, req.Limit)
	if err != nil {
		log.Printf("Category discovery failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Category discovery failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// RunCleanup triggers the retention sweep manually
func (h *Handlers) RunCleanup(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)

	removed, err := h.tracker.CleanupOlderThan(days)
	if err != nil {
		log.Printf("Cleanup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Cleanup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"removed": removed,
	})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
