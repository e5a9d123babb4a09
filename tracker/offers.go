package tracker

import (
	"log"
	"strings"

	"dealwatch/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// OfferStore persists detected offer events
type OfferStore interface {
	CreateOfferEvent(e *models.OfferEvent) error
}

// OfferDetector classifies a price change and records qualifying drops.
// A drop steeper than errorThreshold percent is flagged as a probable
// pricing error rather than a promotion; both kinds are recorded. Drops
// below minDiscount percent are too small to be worth announcing and
// are skipped entirely.
type OfferDetector struct {
	offers         OfferStore
	errorThreshold decimal.Decimal
	minDiscount    decimal.Decimal
}

func NewOfferDetector(offers OfferStore, errorThreshold, minDiscount decimal.Decimal) *OfferDetector {
	return &OfferDetector{
		offers:         offers,
		errorThreshold: errorThreshold,
		minDiscount:    minDiscount,
	}
}

// Detect compares old and new price (the caller guarantees they
// differ). Only a price decrease creates an offer event; increases are
// logged and ignored. Returns the persisted event, or nil when the
// change did not qualify.
func (d *OfferDetector) Detect(product *models.Product, oldPrice, newPrice decimal.Decimal) (*models.OfferEvent, error) {
	discount := oldPrice.Sub(newPrice).Div(oldPrice).Mul(oneHundred)

	if !discount.IsPositive() {
		log.Printf("[%s] Price increased: %s → %s (%s%%), ignoring",
			strings.ToUpper(product.Store),
			oldPrice.StringFixed(2), newPrice.StringFixed(2), discount.StringFixed(2))
		return nil, nil
	}

	if discount.LessThan(d.minDiscount) {
		log.Printf("[%s] Drop of %s%% is below the %s%% notification floor, ignoring",
			strings.ToUpper(product.Store), discount.StringFixed(2), d.minDiscount.StringFixed(2))
		return nil, nil
	}

	event := &models.OfferEvent{
		ProductID:       product.ID,
		OldPrice:        oldPrice,
		NewPrice:        newPrice,
		DiscountPercent: discount,
		IsError:         discount.GreaterThan(d.errorThreshold),
	}

	if err := d.offers.CreateOfferEvent(event); err != nil {
		return nil, err
	}

	kind := "💰 OFFER"
	if event.IsError {
		kind = "🚨 PRICE ERROR"
	}
	log.Printf("[%s] %s detected: %s%% off %s",
		strings.ToUpper(product.Store), kind, discount.StringFixed(2), product.Title)

	return event, nil
}
