package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dealwatch/database"
	"dealwatch/models"
)

// ErrProductNotFound is returned when no product matches a lookup
var ErrProductNotFound = errors.New("product not found")

const productColumns = `id, url, title, store, external_id, current_price, currency, image_url, in_stock, created_at, last_checked`

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.URL, &p.Title, &p.Store, &p.ExternalID,
		&p.CurrentPrice, &p.Currency, &p.ImageURL, &p.InStock,
		&p.CreatedAt, &p.LastChecked,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProductByURL returns the product tracked under the given URL
func (r *ProductRepository) FindProductByURL(url string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE url = $1`

	p, err := scanProduct(database.DB.QueryRow(query, url))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by URL: %v", err)
	}
	return p, nil
}

// GetProductByID returns a product by its id
func (r *ProductRepository) GetProductByID(id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(database.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %v", err)
	}
	return p, nil
}

// CreateProduct inserts a new product together with its first price
// observation. Both writes happen in one transaction so a product never
// exists without its initial history point.
func (r *ProductRepository) CreateProduct(p *models.Product) error {
	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	now := time.Now()
	p.CreatedAt = now
	p.LastChecked = now

	query := `
		INSERT INTO products (id, url, title, store, external_id, current_price, currency, image_url, in_stock, created_at, last_checked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err = tx.Exec(query,
		p.ID, p.URL, p.Title, p.Store, p.ExternalID,
		p.CurrentPrice, p.Currency, p.ImageURL, p.InStock, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %v", err)
	}

	obsQuery := `
		INSERT INTO price_observations (product_id, price, in_stock, observed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(obsQuery, p.ID, p.CurrentPrice, p.InStock, now); err != nil {
		return fmt.Errorf("failed to add initial price observation: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product creation: %v", err)
	}
	return nil
}

// UpdateProduct refreshes a re-checked product and appends a new price
// observation in the same transaction.
func (r *ProductRepository) UpdateProduct(p *models.Product) error {
	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	now := time.Now()
	p.LastChecked = now

	query := `
		UPDATE products
		SET title = $2, external_id = $3, current_price = $4, currency = $5, image_url = $6, in_stock = $7, last_checked = $8
		WHERE id = $1
	`
	_, err = tx.Exec(query,
		p.ID, p.Title, p.ExternalID, p.CurrentPrice, p.Currency, p.ImageURL, p.InStock, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %v", err)
	}

	obsQuery := `
		INSERT INTO price_observations (product_id, price, in_stock, observed_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(obsQuery, p.ID, p.CurrentPrice, p.InStock, now); err != nil {
		return fmt.Errorf("failed to append price observation: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product update: %v", err)
	}
	return nil
}

// LatestObservation returns the most recent price observation for a
// product, or nil when the product has no history yet.
func (r *ProductRepository) LatestObservation(productID string) (*models.PriceObservation, error) {
	query := `
		SELECT id, product_id, price, in_stock, observed_at
		FROM price_observations
		WHERE product_id = $1
		ORDER BY observed_at DESC, id DESC
		LIMIT 1
	`

	var obs models.PriceObservation
	err := database.DB.QueryRow(query, productID).Scan(
		&obs.ID, &obs.ProductID, &obs.Price, &obs.InStock, &obs.ObservedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest observation: %v", err)
	}
	return &obs, nil
}

// ListObservations returns price history for a product, newest first
func (r *ProductRepository) ListObservations(productID string, limit int) ([]models.PriceObservation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, product_id, price, in_stock, observed_at
		FROM price_observations
		WHERE product_id = $1
		ORDER BY observed_at DESC, id DESC
		LIMIT $2
	`

	rows, err := database.DB.Query(query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %v", err)
	}
	defer rows.Close()

	var history []models.PriceObservation
	for rows.Next() {
		var obs models.PriceObservation
		err := rows.Scan(&obs.ID, &obs.ProductID, &obs.Price, &obs.InStock, &obs.ObservedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %v", err)
		}
		history = append(history, obs)
	}
	return history, nil
}

// ListProducts returns tracked products, optionally filtered by store
func (r *ProductRepository) ListProducts(store string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	if store != "" {
		query += ` WHERE store = $1`
		args = append(args, store)
	}
	query += fmt.Sprintf(` ORDER BY last_checked DESC LIMIT %d`, limit)

	return r.queryProducts(query, args...)
}

// ListProductsByStore returns every product tracked for one store
func (r *ProductRepository) ListProductsByStore(store string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store = $1 ORDER BY last_checked ASC`
	return r.queryProducts(query, store)
}

// ListProductsOlderThan returns products whose last check is before the cutoff
func (r *ProductRepository) ListProductsOlderThan(cutoff time.Time) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE last_checked < $1`
	return r.queryProducts(query, cutoff)
}

func (r *ProductRepository) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %v", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %v", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

// DeleteProduct removes a product; observations and offer events cascade
func (r *ProductRepository) DeleteProduct(id string) error {
	_, err := database.DB.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %v", err)
	}
	return nil
}

// Stats summarizes the catalogue and detected offers
func (r *ProductRepository) Stats() (*models.Stats, error) {
	stats := &models.Stats{}

	err := database.DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %v", err)
	}

	err = database.DB.QueryRow(`SELECT COUNT(*) FROM offer_events`).Scan(&stats.TotalOffers)
	if err != nil {
		return nil, fmt.Errorf("failed to count offers: %v", err)
	}

	err = database.DB.QueryRow(`SELECT COUNT(*) FROM offer_events WHERE is_error = TRUE`).Scan(&stats.ErrorPriceCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count price errors: %v", err)
	}

	rows, err := database.DB.Query(`SELECT store, COUNT(*) FROM products GROUP BY store ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to count products by store: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc models.StoreCount
		if err := rows.Scan(&sc.Store, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan store count: %v", err)
		}
		stats.PerStoreCounts = append(stats.PerStoreCounts, sc)
	}

	return stats, nil
}
