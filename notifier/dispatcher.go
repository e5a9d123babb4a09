package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dealwatch/models"
)

// OfferStore is the persistence surface the dispatcher needs
type OfferStore interface {
	ListUnnotifiedEvents() ([]models.OfferEvent, error)
	AttachAffiliateLink(id int64, link string) error
	MarkNotified(id int64) error
}

// Dispatcher delivers pending offer events. Delivery is at-least-once:
// an event is marked notified only after a successful send, so a crash
// or flag-write failure after delivery can produce a duplicate message
// on the next run. That is accepted; losing notifications is not.
type Dispatcher struct {
	offers  OfferStore
	channel Channel
	links   *AffiliateLinks
}

func NewDispatcher(offers OfferStore, channel Channel, links *AffiliateLinks) *Dispatcher {
	return &Dispatcher{
		offers:  offers,
		channel: channel,
		links:   links,
	}
}

// Run processes all unnotified events, newest first. One event's
// failure never blocks the rest; failed events stay unnotified and are
// retried on the next cycle.
func (d *Dispatcher) Run(ctx context.Context) error {
	events, err := d.offers.ListUnnotifiedEvents()
	if err != nil {
		return fmt.Errorf("failed to list unnotified offers: %v", err)
	}

	if len(events) == 0 {
		return nil
	}
	log.Printf("Found %d unnotified offers", len(events))

	for _, event := range events {
		if err := d.dispatch(ctx, event); err != nil {
			log.Printf("❌ Failed to notify offer %d: %v", event.ID, err)
			continue
		}
		log.Printf("✅ Notification sent for: %s", event.Product.Title)
	}
	return nil
}

// dispatch handles one event: attach the outbound link first, then
// attempt delivery, then flip the notified flag.
func (d *Dispatcher) dispatch(ctx context.Context, event models.OfferEvent) error {
	link := d.links.Build(event.Product.URL, event.Product.Store)
	if err := d.offers.AttachAffiliateLink(event.ID, link); err != nil {
		return err
	}

	if err := d.channel.Send(ctx, FormatMessage(event, link)); err != nil {
		return err
	}

	if err := d.offers.MarkNotified(event.ID); err != nil {
		// The message is already out; surface the flag failure so the
		// likely duplicate on the next run is visible in the logs.
		return fmt.Errorf("message sent but failed to mark notified: %v", err)
	}
	return nil
}

// FormatMessage renders the outbound notification for an offer event
func FormatMessage(event models.OfferEvent, link string) string {
	product := event.Product

	emoji, tag := "💰", "#Deal"
	if event.IsError {
		emoji, tag = "🚨", "#PriceError"
	}

	stock := "✅ In stock"
	if !product.InStock {
		stock = "❌ Out of stock"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s - %s%% OFF\n\n", emoji, tag, event.DiscountPercent.StringFixed(1))
	fmt.Fprintf(&b, "📦 *%s*\n\n", product.Title)
	fmt.Fprintf(&b, "💵 Was: %s %s\n", product.Currency, event.OldPrice.StringFixed(2))
	fmt.Fprintf(&b, "🔥 Now: %s %s\n", product.Currency, event.NewPrice.StringFixed(2))
	fmt.Fprintf(&b, "💎 You save: %s %s\n\n", product.Currency, event.Savings().StringFixed(2))
	fmt.Fprintf(&b, "🏪 Store: %s\n", strings.ToUpper(product.Store))
	fmt.Fprintf(&b, "%s\n\n", stock)
	fmt.Fprintf(&b, "🔗 [Buy here](%s)", link)

	if event.IsError {
		b.WriteString("\n\n⚡ Probable pricing error! Act fast before it gets fixed.")
	}
	return b.String()
}
