package repository

import (
	"fmt"
	"time"

	"dealwatch/database"
	"dealwatch/models"
)

const offerColumns = `o.id, o.product_id, o.old_price, o.new_price, o.discount_percent, o.is_error, o.notified, o.affiliate_link, o.created_at`

type OfferRepository struct{}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{}
}

// CreateOfferEvent persists a freshly detected offer, notified = false
func (r *OfferRepository) CreateOfferEvent(e *models.OfferEvent) error {
	query := `
		INSERT INTO offer_events (product_id, old_price, new_price, discount_percent, is_error, notified, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING id, created_at
	`

	now := time.Now()
	err := database.DB.QueryRow(query,
		e.ProductID, e.OldPrice, e.NewPrice, e.DiscountPercent, e.IsError, now,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create offer event: %v", err)
	}
	return nil
}

// ListUnnotifiedEvents returns pending offers newest first, with their
// products joined in for message building.
func (r *OfferRepository) ListUnnotifiedEvents() ([]models.OfferEvent, error) {
	query := `
		SELECT ` + offerColumns + `, ` + joinedProductColumns + `
		FROM offer_events o
		JOIN products p ON p.id = o.product_id
		WHERE o.notified = FALSE
		ORDER BY o.created_at DESC
	`
	return r.queryOffers(query)
}

// ListOffers returns detected offers newest first
func (r *OfferRepository) ListOffers(limit int, onlyErrors bool) ([]models.OfferEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + offerColumns + `, ` + joinedProductColumns + `
		FROM offer_events o
		JOIN products p ON p.id = o.product_id
	`
	if onlyErrors {
		query += ` WHERE o.is_error = TRUE`
	}
	query += fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT %d`, limit)

	return r.queryOffers(query)
}

// ListOffersByProduct returns the offers recorded for one product
func (r *OfferRepository) ListOffersByProduct(productID string) ([]models.OfferEvent, error) {
	query := `
		SELECT ` + offerColumns + `, ` + joinedProductColumns + `
		FROM offer_events o
		JOIN products p ON p.id = o.product_id
		WHERE o.product_id = $1
		ORDER BY o.created_at DESC
	`
	return r.queryOffers(query, productID)
}

// AttachAffiliateLink stores the outbound link on the event before the
// delivery attempt.
func (r *OfferRepository) AttachAffiliateLink(id int64, link string) error {
	_, err := database.DB.Exec(`UPDATE offer_events SET affiliate_link = $2 WHERE id = $1`, id, link)
	if err != nil {
		return fmt.Errorf("failed to attach affiliate link: %v", err)
	}
	return nil
}

// MarkNotified flips the notified flag after a successful delivery
func (r *OfferRepository) MarkNotified(id int64) error {
	_, err := database.DB.Exec(`UPDATE offer_events SET notified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark offer as notified: %v", err)
	}
	return nil
}

const joinedProductColumns = `p.id, p.url, p.title, p.store, p.external_id, p.current_price, p.currency, p.image_url, p.in_stock, p.created_at, p.last_checked`

func (r *OfferRepository) queryOffers(query string, args ...interface{}) ([]models.OfferEvent, error) {
	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %v", err)
	}
	defer rows.Close()

	var offers []models.OfferEvent
	for rows.Next() {
		var e models.OfferEvent
		var p models.Product
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.OldPrice, &e.NewPrice, &e.DiscountPercent,
			&e.IsError, &e.Notified, &e.AffiliateLink, &e.CreatedAt,
			&p.ID, &p.URL, &p.Title, &p.Store, &p.ExternalID,
			&p.CurrentPrice, &p.Currency, &p.ImageURL, &p.InStock,
			&p.CreatedAt, &p.LastChecked,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %v", err)
		}
		e.Product = &p
		offers = append(offers, e)
	}
	return offers, nil
}
