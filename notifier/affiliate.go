package notifier

import "net/url"

// AffiliateLinks rewrites product URLs into affiliate/tracking links
// for the stores with a configured program. Unknown stores and
// malformed URLs pass through unchanged.
type AffiliateLinks struct {
	AmazonTag      string
	MercadoLibreID string
}

// Build returns the outbound link for a product URL and store tag
func (a *AffiliateLinks) Build(rawURL, store string) string {
	switch store {
	case "amazon":
		return a.amazonLink(rawURL)
	case "mercadolibre":
		return a.mercadoLibreLink(rawURL)
	default:
		return rawURL
	}
}

func (a *AffiliateLinks) amazonLink(rawURL string) string {
	if a.AmazonTag == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	query.Set("tag", a.AmazonTag)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// Mercado Libre's affiliate format varies by country; the utm_source
// convention works for the regions we cover.
func (a *AffiliateLinks) mercadoLibreLink(rawURL string) string {
	if a.MercadoLibreID == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	query.Set("utm_source", a.MercadoLibreID)
	query.Set("utm_medium", "affiliate")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
