package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// StoreUnknown is the sentinel tag for URLs that match no known store
const StoreUnknown = "unknown"

// storeDomains maps hostname substrings to store tags. Longer, more
// specific entries are listed for markets that share a brand domain.
var storeDomains = map[string]string{
	"mercadolibre.com":    "mercadolibre",
	"mercadolivre.com":    "mercadolibre",
	"amazon.":             "amazon",
	"liverpool.com.mx":    "liverpool",
	"walmart.com":         "walmart",
	"sams.com.mx":         "sams",
	"soriana.com":         "soriana",
	"coppel.com":          "coppel",
	"sears.com":           "sears",
	"apple.com":           "apple",
	"samsung.com":         "samsung",
	"hp.com":              "hp",
	"mi.com":              "xiaomi",
	"xiaomi.com":          "xiaomi",
	"sony.com":            "sony",
	"bestbuy.com":         "bestbuy",
	"costco.com.mx":       "costco",
	"elektra.com.mx":      "elektra",
	"sanborns.com.mx":     "sanborns",
	"office-depot.com.mx": "officedepot",
}

// DetectStore maps a product URL to a known store tag, or StoreUnknown
// when no entry matches. The only failure mode is a malformed URL.
func DetectStore(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid product URL %q: %v", rawURL, err)
	}

	domain := strings.ToLower(parsed.Hostname())
	if domain == "" {
		return "", fmt.Errorf("invalid product URL %q: missing host", rawURL)
	}

	for key, store := range storeDomains {
		if strings.Contains(domain, key) {
			return store, nil
		}
	}
	return StoreUnknown, nil
}
