package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const mlAPIBase = "https://api.mercadolibre.com"

// mlItemIDPattern matches ids embedded in product URLs, e.g.
// .../p/MLM123456789 or articulo...MLM-123456789-product-name
var mlItemIDPattern = regexp.MustCompile(`(?i)ML[A-Z]-?\d+`)

// MLItem is a product record from the Mercado Libre items/search API
type MLItem struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	CurrencyID        string          `json:"currency_id"`
	OriginalPrice     decimal.Decimal `json:"original_price"`
	Permalink         string          `json:"permalink"`
	Thumbnail         string          `json:"thumbnail"`
	AvailableQuantity int             `json:"available_quantity"`
	Shipping          MLShipping      `json:"shipping"`
	SellerReputation  MLReputation    `json:"seller_reputation"`
}

// MLShipping carries the shipping flags used by discovery filtering
type MLShipping struct {
	FreeShipping bool `json:"free_shipping"`
}

// MLReputation carries the seller quality signal used by discovery
type MLReputation struct {
	PowerSellerStatus string `json:"power_seller_status"`
}

type mlSearchResponse struct {
	Results []MLItem `json:"results"`
}

// MercadoLibreClient is the structured-API collaborator: it returns
// typed product records directly, bypassing HTML extraction.
type MercadoLibreClient struct {
	http *resty.Client
}

func NewMercadoLibreClient(timeout time.Duration) *MercadoLibreClient {
	http := resty.New().
		SetBaseURL(mlAPIBase).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &MercadoLibreClient{http: http}
}

// ExtractItemID pulls the item id out of a product URL
func ExtractItemID(url string) (string, error) {
	match := mlItemIDPattern.FindString(url)
	if match == "" {
		return "", fmt.Errorf("no Mercado Libre item id in URL: %s", url)
	}
	return strings.ToUpper(strings.ReplaceAll(match, "-", "")), nil
}

// FetchItem loads one item from the public items API
func (c *MercadoLibreClient) FetchItem(ctx context.Context, id string) (*MLItem, error) {
	var item MLItem
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&item).
		Get("/items/" + id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d for item %s", ErrFetchFailed, resp.StatusCode(), id)
	}
	return &item, nil
}

// Search queries the catalogue of a site (MLM = Mexico, MLA =
// Argentina, MLB = Brazil), optionally scoped to a category.
func (c *MercadoLibreClient) Search(ctx context.Context, query, site string, limit int, category string) ([]MLItem, error) {
	if site == "" {
		site = "MLM"
	}
	if limit <= 0 {
		limit = 50
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", limit))
	if query != "" {
		req.SetQueryParam("q", query)
	}
	if category != "" {
		req.SetQueryParam("category", category)
	}

	var result mlSearchResponse
	resp, err := req.SetResult(&result).Get("/sites/" + site + "/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: search returned status %d", ErrFetchFailed, resp.StatusCode())
	}
	return result.Results, nil
}

// APIExtractor adapts the Mercado Libre API to the Extractor interface
type APIExtractor struct {
	ml *MercadoLibreClient
}

func (e *APIExtractor) Extract(ctx context.Context, url string) (*ProductData, error) {
	id, err := ExtractItemID(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionIncomplete, err)
	}

	item, err := e.ml.FetchItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Title == "" || !item.Price.IsPositive() {
		return nil, ErrExtractionIncomplete
	}

	inStock := item.AvailableQuantity > 0
	return &ProductData{
		ExternalID: item.ID,
		Title:      item.Title,
		Price:      item.Price,
		Currency:   item.CurrencyID,
		ImageURL:   item.Thumbnail,
		InStock:    &inStock,
	}, nil
}
