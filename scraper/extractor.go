package scraper

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// ProductData is the best-effort extraction result. Every field is
// optional until a strategy fills it: empty string and zero price mean
// "not found yet", a nil InStock means no strategy reported
// availability (which defaults to in stock).
type ProductData struct {
	ExternalID string
	Title      string
	Price      decimal.Decimal
	Currency   string
	ImageURL   string
	InStock    *bool
}

// complete reports whether the two required fields are set
func (d *ProductData) complete() bool {
	return d.Title != "" && d.Price.IsPositive()
}

// merge fills fields of d that are still unset from src. Earlier
// strategies win: a value that is already set sticks.
func (d *ProductData) merge(src ProductData) {
	if d.Title == "" {
		d.Title = src.Title
	}
	if !d.Price.IsPositive() {
		d.Price = src.Price
	}
	if d.Currency == "" {
		d.Currency = src.Currency
	}
	if d.ImageURL == "" {
		d.ImageURL = src.ImageURL
	}
	if d.InStock == nil {
		d.InStock = src.InStock
	}
}

// Extractor produces product data for a URL, either from the page
// itself or from a store's structured API.
type Extractor interface {
	Extract(ctx context.Context, url string) (*ProductData, error)
}

// Scraper owns the shared HTTP clients and selects the extractor
// variant for a store.
type Scraper struct {
	client *Client
	ml     *MercadoLibreClient
}

// New builds a Scraper with the given per-request timeout
func New(timeout time.Duration) *Scraper {
	return &Scraper{
		client: NewClient(timeout),
		ml:     NewMercadoLibreClient(timeout),
	}
}

// ForStore picks the structured-API extractor for stores that offer
// one and the generic multi-strategy extractor for everything else.
func (s *Scraper) ForStore(store string) Extractor {
	if store == "mercadolibre" {
		return &APIExtractor{ml: s.ml}
	}
	return &GenericExtractor{client: s.client, profile: ProfileFor(store)}
}

// Search exposes Mercado Libre catalogue search for discovery
func (s *Scraper) Search(ctx context.Context, query, site string, limit int, category string) ([]MLItem, error) {
	return s.ml.Search(ctx, query, site, limit, category)
}

// GenericExtractor runs the ordered strategy chain over a fetched page
type GenericExtractor struct {
	client  *Client
	profile Profile
}

func (e *GenericExtractor) Extract(ctx context.Context, url string) (*ProductData, error) {
	doc, err := e.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	data, err := ExtractFromDocument(doc, e.profile)
	if err != nil {
		return nil, err
	}
	data.ExternalID = generateID(url)
	return data, nil
}

// strategies, in fixed priority order. JSON-LD is the most reliable
// source, generic selectors the least.
var strategies = []func(doc *goquery.Document, p Profile) ProductData{
	extractFromJSONLD,
	extractFromOpenGraph,
	extractFromMicrodata,
	extractFromSelectors,
}

// ExtractFromDocument runs the strategy chain over a parsed page.
// Each strategy's output is merged field-by-field into the accumulator
// (first match wins) and the chain stops as soon as title and price
// are both present. Missing either at the end is ErrExtractionIncomplete.
func ExtractFromDocument(doc *goquery.Document, profile Profile) (*ProductData, error) {
	data := &ProductData{}

	for _, strategy := range strategies {
		data.merge(strategy(doc, profile))
		if data.complete() {
			break
		}
	}

	if !data.complete() {
		return nil, ErrExtractionIncomplete
	}

	if data.Currency == "" {
		data.Currency = profile.Currency
	}
	if data.Currency == "" {
		data.Currency = "MXN"
	}
	return data, nil
}

// jsonLDProduct is the subset of a schema.org Product block we need.
// Offers and image vary between object, array and scalar forms across
// stores, so they stay loosely typed.
type jsonLDProduct struct {
	Type   string          `json:"@type"`
	Graph  []jsonLDProduct `json:"@graph"`
	Name   string          `json:"name"`
	Image  interface{}     `json:"image"`
	Offers interface{}     `json:"offers"`
}

// extractFromJSONLD reads structured product data islands. When several
// qualifying blocks exist the first one wins.
func extractFromJSONLD(doc *goquery.Document, p Profile) ProductData {
	var out ProductData

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var block jsonLDProduct
		if err := json.Unmarshal([]byte(sel.Text()), &block); err != nil {
			return true
		}

		product := findJSONLDProduct(block)
		if product == nil {
			return true
		}

		out.Title = strings.TrimSpace(product.Name)
		out.ImageURL = firstString(product.Image)

		if offer := firstOffer(product.Offers); offer != nil {
			out.Price = ParsePrice(stringValue(offer["price"]), p.Convention)
			out.Currency = stringValue(offer["priceCurrency"])
			if availability, ok := offer["availability"].(string); ok && availability != "" {
				inStock := strings.Contains(availability, "InStock")
				out.InStock = &inStock
			}
		}
		return false
	})

	return out
}

func findJSONLDProduct(block jsonLDProduct) *jsonLDProduct {
	if block.Type == "Product" {
		return &block
	}
	for _, node := range block.Graph {
		if node.Type == "Product" {
			return &node
		}
	}
	return nil
}

// firstOffer normalizes the offers field, which is either one offer
// object or a list of them.
func firstOffer(offers interface{}) map[string]interface{} {
	switch v := offers.(type) {
	case map[string]interface{}:
		return v
	case []interface{}:
		if len(v) > 0 {
			if offer, ok := v[0].(map[string]interface{}); ok {
				return offer
			}
		}
	}
	return nil
}

func firstString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// stringValue renders a JSON scalar as price text. JSON-LD prices show
// up both as strings and as numbers.
func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	}
	return ""
}

// extractFromOpenGraph reads social preview metadata
func extractFromOpenGraph(doc *goquery.Document, p Profile) ProductData {
	return ProductData{
		Title:    metaContent(doc, `meta[property="og:title"]`),
		ImageURL: metaContent(doc, `meta[property="og:image"]`),
		Price:    ParsePrice(metaContent(doc, `meta[property="product:price:amount"]`), p.Convention),
		Currency: metaContent(doc, `meta[property="product:price:currency"]`),
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// extractFromMicrodata reads inline itemprop annotations
func extractFromMicrodata(doc *goquery.Document, p Profile) ProductData {
	var out ProductData

	out.Title = strings.TrimSpace(doc.Find(`[itemprop="name"]`).First().Text())

	priceSel := doc.Find(`[itemprop="price"]`).First()
	priceText, ok := priceSel.Attr("content")
	if !ok {
		priceText = priceSel.Text()
	}
	out.Price = ParsePrice(priceText, p.Convention)

	out.Currency, _ = doc.Find(`[itemprop="priceCurrency"]`).First().Attr("content")

	imageSel := doc.Find(`[itemprop="image"]`).First()
	if src, ok := imageSel.Attr("src"); ok {
		out.ImageURL = src
	} else if content, ok := imageSel.Attr("content"); ok {
		out.ImageURL = content
	}

	if availability, ok := doc.Find(`[itemprop="availability"]`).First().Attr("content"); ok && availability != "" {
		inStock := strings.Contains(availability, "InStock")
		out.InStock = &inStock
	}

	return out
}

// commonTitleSelectors are tried after any per-store selectors,
// ordered dedicated class names before bare h1 heuristics.
var commonTitleSelectors = []string{
	".product-title",
	".product-name",
	`[data-testid="product-title"]`,
	"h1",
}

var commonPriceSelectors = []string{
	".product-price",
	`[data-testid="price"]`,
	".price-current",
	".sale-price",
	".current-price",
	".final-price",
	".price",
	"[data-price]",
}

var commonImageSelectors = []string{
	"img.product-image",
	".main-image img",
	`[data-testid="product-image"]`,
}

// extractFromSelectors is the last-resort generic strategy: ordered
// selector lists with per-store entries taking priority.
func extractFromSelectors(doc *goquery.Document, p Profile) ProductData {
	var out ProductData

	for _, selector := range append(p.TitleSelectors, commonTitleSelectors...) {
		if title := strings.TrimSpace(doc.Find(selector).First().Text()); title != "" {
			out.Title = title
			break
		}
	}

	for _, selector := range append(p.PriceSelectors, commonPriceSelectors...) {
		sel := doc.Find(selector).First()
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			text, _ = sel.Attr("data-price")
		}
		if price := ParsePrice(text, p.Convention); price.IsPositive() {
			out.Price = price
			if p.Currency == "" {
				out.Currency = DetectCurrency(text)
			}
			break
		}
	}

	for _, selector := range append(p.ImageSelectors, commonImageSelectors...) {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && src != "" {
			out.ImageURL = src
			break
		}
	}

	return out
}

// generateID derives a stable external id for stores that expose none
func generateID(url string) string {
	id := base64.StdEncoding.EncodeToString([]byte(url))
	if len(id) > 20 {
		id = id[:20]
	}
	return id
}
