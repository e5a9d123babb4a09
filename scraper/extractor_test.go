package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractFromJSONLD(t *testing.T) {
	doc := parseHTML(t, `
		<html><head>
		<script type="application/ld+json">
		{
			"@type": "Product",
			"name": "iPhone 15 Pro 256GB",
			"image": "https://cdn.example.com/iphone.jpg",
			"offers": {
				"price": "24999.00",
				"priceCurrency": "MXN",
				"availability": "https://schema.org/InStock"
			}
		}
		</script>
		</head><body></body></html>`)

	data, err := ExtractFromDocument(doc, defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, "iPhone 15 Pro 256GB", data.Title)
	assert.True(t, decimal.RequireFromString("24999").Equal(data.Price))
	assert.Equal(t, "MXN", data.Currency)
	assert.Equal(t, "https://cdn.example.com/iphone.jpg", data.ImageURL)
	require.NotNil(t, data.InStock)
	assert.True(t, *data.InStock)
}

func TestExtractFromJSONLDGraph(t *testing.T) {
	doc := parseHTML(t, `
		<html><head>
		<script type="application/ld+json">
		{
			"@graph": [
				{"@type": "Organization", "name": "Some Store"},
				{"@type": "Product", "name": "Pantalla 55 pulgadas",
				 "offers": [{"price": 8499.5, "priceCurrency": "MXN"}]}
			]
		}
		</script>
		</head><body></body></html>`)

	data, err := ExtractFromDocument(doc, defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, "Pantalla 55 pulgadas", data.Title)
	assert.True(t, decimal.RequireFromString("8499.5").Equal(data.Price))
}

func TestExtractFromOpenGraph(t *testing.T) {
	doc := parseHTML(t, `
		<html><head>
		<meta property="og:title" content="Licuadora Pro 900W">
		<meta property="og:image" content="https://cdn.example.com/licuadora.jpg">
		<meta property="product:price:amount" content="1,299.50">
		<meta property="product:price:currency" content="MXN">
		</head><body></body></html>`)

	data, err := ExtractFromDocument(doc, defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, "Licuadora Pro 900W", data.Title)
	assert.True(t, decimal.RequireFromString("1299.5").Equal(data.Price))
	assert.Equal(t, "MXN", data.Currency)
}

func TestExtractFromMicrodata(t *testing.T) {
	doc := parseHTML(t, `
		<html><body>
		<div itemscope itemtype="https://schema.org/Product">
			<span itemprop="name">Audifonos Bluetooth X200</span>
			<meta itemprop="price" content="549.00">
			<meta itemprop="priceCurrency" content="MXN">
			<link itemprop="availability" content="https://schema.org/OutOfStock">
		</div>
		</body></html>`)

	data, err := ExtractFromDocument(doc, defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, "Audifonos Bluetooth X200", data.Title)
	assert.True(t, decimal.RequireFromString("549").Equal(data.Price))
	require.NotNil(t, data.InStock)
	assert.False(t, *data.InStock)
}

func TestExtractFromCommonSelectors(t *testing.T) {
	doc := parseHTML(t, `
		<html><body>
		<h1>Bicicleta de montaña R29</h1>
		<div class="price-current">$5,499.00</div>
		<img class="product-image" src="https://cdn.example.com/bici.jpg">
		</body></html>`)

	data, err := ExtractFromDocument(doc, defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, "Bicicleta de montaña R29", data.Title)
	assert.True(t, decimal.RequireFromString("5499").Equal(data.Price))
	assert.Equal(t, "https://cdn.example.com/bici.jpg", data.ImageURL)
}

// Merging is field-level first-match-wins: the JSON-LD title must
// survive even though the price only shows up in a later strategy.
func TestExtractMergeFirstMatchWins(t *testing.T) {
	doc := parseHTML(t, `
		<html><head>
		<script type="application/ld+json">
		{"@type": "Product", "name": "Title From JSONLD"}
		</script>
		</head><body>
		<h1>Title From H1</h1>
		<div class="price">$100.00</div>
		</body></html>`)

	data, err := ExtractFromDocument(doc, defaultProfile)
	require.NoError(t, err)

	assert.Equal(t, "Title From JSONLD", data.Title)
	assert.True(t, decimal.RequireFromString("100").Equal(data.Price))
}

func TestExtractAvailabilityDefaultsUnset(t *testing.T) {
	doc := parseHTML(t, `
		<html><body>
		<h1>Producto sin availability</h1>
		<div class="price">$250.00</div>
		</body></html>`)

	data, err := ExtractFromDocument(doc, defaultProfile)
	require.NoError(t, err)

	// No strategy reported availability: the field stays nil so the
	// tracker applies the in-stock default.
	assert.Nil(t, data.InStock)
}

func TestExtractIncomplete(t *testing.T) {
	doc := parseHTML(t, `<html><body><h1>Only a title</h1></body></html>`)
	_, err := ExtractFromDocument(doc, defaultProfile)
	assert.ErrorIs(t, err, ErrExtractionIncomplete)

	doc = parseHTML(t, `<html><body><div class="price">$99.00</div></body></html>`)
	_, err = ExtractFromDocument(doc, defaultProfile)
	assert.ErrorIs(t, err, ErrExtractionIncomplete)
}

func TestExtractStoreProfileSelectorsWin(t *testing.T) {
	doc := parseHTML(t, `
		<html><body>
		<span id="productTitle"> Echo Dot (5th Gen) </span>
		<span class="a-price"><span class="a-offscreen">$49.99</span></span>
		<div class="price">$999.99</div>
		</body></html>`)

	data, err := ExtractFromDocument(doc, ProfileFor("amazon"))
	require.NoError(t, err)

	assert.Equal(t, "Echo Dot (5th Gen)", data.Title)
	assert.True(t, decimal.RequireFromString("49.99").Equal(data.Price))
	assert.Equal(t, "USD", data.Currency)
}
