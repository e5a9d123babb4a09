package scraper

// Profile carries per-store tuning for the generic extractor: extra
// selectors tried before the common fallbacks, the store's price text
// convention, and its default currency.
type Profile struct {
	TitleSelectors []string
	PriceSelectors []string
	ImageSelectors []string
	Convention     SeparatorConvention
	Currency       string
}

// storeProfiles replaces the old one-scraper-per-store duplication:
// each entry is just the selector list that used to justify a whole
// dedicated scraper.
var storeProfiles = map[string]Profile{
	"amazon": {
		TitleSelectors: []string{"#productTitle", "h1.product-title"},
		PriceSelectors: []string{
			".a-price .a-offscreen",
			"#priceblock_ourprice",
			"#priceblock_dealprice",
			".a-price-whole",
		},
		ImageSelectors: []string{"#landingImage", ".a-dynamic-image"},
		Convention:     CommaThousands,
		Currency:       "USD",
	},
	"walmart": {
		TitleSelectors: []string{`h1[itemprop="name"]`, "h1.product-title", ".prod-ProductTitle"},
		PriceSelectors: []string{".price-current", `[data-automation-id="product-price"]`},
		Convention:     CommaThousands,
		Currency:       "MXN",
	},
	"liverpool": {
		TitleSelectors: []string{"h1.product-name", `h1[itemprop="name"]`, ".product-title"},
		PriceSelectors: []string{".price-section .price-final", `[data-price-type="finalPrice"]`},
		ImageSelectors: []string{"img.product-image"},
		Convention:     CommaThousands,
		Currency:       "MXN",
	},
	"coppel": {
		TitleSelectors: []string{"h1.product-name", ".product-title"},
		PriceSelectors: []string{".product-price", ".price-final", ".sale-price"},
		Convention:     CommaThousands,
		Currency:       "MXN",
	},
	"sears": {
		TitleSelectors: []string{"h1.product-name", ".product-title"},
		PriceSelectors: []string{".product-price", ".price-current"},
		Convention:     CommaThousands,
		Currency:       "MXN",
	},
	"soriana": {
		TitleSelectors: []string{"h1.product-name", ".product-title"},
		PriceSelectors: []string{".product-price", ".price"},
		Convention:     CommaThousands,
		Currency:       "MXN",
	},
	"sams": {
		TitleSelectors: []string{"h1.product-name", ".product-title"},
		PriceSelectors: []string{".product-price", ".price-current"},
		Convention:     CommaThousands,
		Currency:       "MXN",
	},
}

// defaultProfile is the all-stores fallback used when the URL maps to
// no known store.
var defaultProfile = Profile{
	Convention: CommaThousands,
	Currency:   "MXN",
}

// ProfileFor returns the selector profile for a store tag
func ProfileFor(store string) Profile {
	if p, ok := storeProfiles[store]; ok {
		return p
	}
	return defaultProfile
}
