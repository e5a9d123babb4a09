package scraper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePriceCommaThousands(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{"$1,299.50", "1299.5"},
		{"$ 19,999.00 MXN", "19999"},
		{"1299", "1299"},
		{"999.99", "999.99"},
		{"Precio: $449", "449"},
		{"", "0"},
		{"no price here", "0"},
		{"$", "0"},
	}

	for _, tc := range testCases {
		expected := decimal.RequireFromString(tc.expected)
		got := ParsePrice(tc.text, CommaThousands)
		assert.True(t, expected.Equal(got), "ParsePrice(%q) = %s, want %s", tc.text, got, expected)
	}
}

func TestParsePriceCommaDecimal(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{"€1.299,50", "1299.5"},
		{"1.299", "1299"},
		{"449,90", "449.9"},
		{"", "0"},
	}

	for _, tc := range testCases {
		expected := decimal.RequireFromString(tc.expected)
		got := ParsePrice(tc.text, CommaDecimal)
		assert.True(t, expected.Equal(got), "ParsePrice(%q) = %s, want %s", tc.text, got, expected)
	}
}

func TestParsePriceZeroMeansAbsent(t *testing.T) {
	// A page with no digits must yield zero, which callers reject as
	// "no price", never as a free product.
	assert.True(t, ParsePrice("GRATIS", CommaThousands).IsZero())
	assert.True(t, ParsePrice("$0.00", CommaThousands).IsZero())
}

func TestDetectCurrency(t *testing.T) {
	assert.Equal(t, "USD", DetectCurrency("$1,299.50"))
	assert.Equal(t, "MXN", DetectCurrency("$1,299.50 MXN"))
	assert.Equal(t, "EUR", DetectCurrency("€449,90"))
	assert.Equal(t, "GBP", DetectCurrency("£20"))
	assert.Equal(t, "", DetectCurrency("1299"))
}
