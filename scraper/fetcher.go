package scraper

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client fetches product pages and hands back parsed documents
type Client struct {
	http *resty.Client
}

// NewClient builds a fetch client with a per-request timeout bound
func NewClient(timeout time.Duration) *Client {
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "es-MX,es;q=0.9,en;q=0.8")

	return &Client{http: http}
}

// Fetch downloads a page and parses it. Network errors, timeouts and
// non-2xx responses all surface as ErrFetchFailed.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetchFailed, resp.StatusCode(), url)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse page: %v", ErrFetchFailed, err)
	}
	return doc, nil
}
