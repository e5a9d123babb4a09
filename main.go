package main

import (
	"log"
	"net/http"
	"strings"

	"dealwatch/config"
	"dealwatch/database"
	"dealwatch/handlers"
	"dealwatch/middleware"
	"dealwatch/notifier"
	"dealwatch/repository"
	"dealwatch/scheduler"
	"dealwatch/scraper"
	"dealwatch/tracker"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	// Initialize database
	if err := database.InitDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository()
	offerRepo := repository.NewOfferRepository()

	// Initialize scraping and tracking pipeline
	scrapers := scraper.New(cfg.Scraping.RequestTimeout)
	detector := tracker.NewOfferDetector(offerRepo, cfg.Offers.ErrorThreshold, cfg.Offers.MinDiscountPercent)
	productTracker := tracker.New(productRepo, scrapers, detector)
	discovery := tracker.NewDiscovery(scrapers, productTracker, productRepo,
		cfg.Discovery.MinPrice, cfg.Scraping.RequestDelay)

	// Initialize notification channel and dispatcher. The channel is
	// built once here and handed to the dispatcher by reference.
	channel := notifier.NewTelegramChannel(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	links := &notifier.AffiliateLinks{
		AmazonTag:      cfg.Affiliates.AmazonTag,
		MercadoLibreID: cfg.Affiliates.MercadoLibreID,
	}
	dispatcher := notifier.NewDispatcher(offerRepo, channel, links)

	// Start the periodic workers
	worker := scheduler.NewWorker(productTracker, productRepo, dispatcher, discovery, cfg)
	worker.Start()
	defer worker.Stop()

	// Setup router
	h := handlers.NewHandlers(productRepo, offerRepo, productTracker, discovery, scrapers)

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimit))

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", h.GetStats).Methods("GET")
	api.HandleFunc("/products", h.GetProducts).Methods("GET")
	api.HandleFunc("/products/track", h.TrackProduct).Methods("POST")
	api.HandleFunc("/products/search", h.SearchAndTrackProducts).Methods("POST")
	api.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	api.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")
	api.HandleFunc("/offers", h.GetOffers).Methods("GET")
	api.HandleFunc("/search/mercadolibre", h.SearchMercadoLibre).Methods("GET")
	api.HandleFunc("/discovery/run", h.RunDiscovery).Methods("POST")
	api.HandleFunc("/discovery/category", h.RunCategoryDiscovery).Methods("POST")
	api.HandleFunc("/cleanup", h.RunCleanup).Methods("POST")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	log.Printf("🌐 Server starting on port %s", cfg.Port)
	log.Printf("📋 API endpoints:")
	log.Printf("   GET    /health - Health check")
	log.Printf("   GET    /api/stats - Tracking statistics")
	log.Printf("   GET    /api/products - List tracked products")
	log.Printf("   POST   /api/products/track - Track a product URL")
	log.Printf("   POST   /api/products/search - Search and track top results")
	log.Printf("   GET    /api/products/{id} - Product with history")
	log.Printf("   DELETE /api/products/{id} - Stop tracking")
	log.Printf("   GET    /api/offers - Detected offers")
	log.Printf("   GET    /api/search/mercadolibre - Catalogue search")
	log.Printf("   POST   /api/discovery/run - Run discovery now")
	log.Printf("   POST   /api/discovery/category - Discover from a category")
	log.Printf("   POST   /api/cleanup - Run retention sweep now")

	log.Fatal(http.ListenAndServe(cfg.Host+":"+cfg.Port, c.Handler(r)))
}
