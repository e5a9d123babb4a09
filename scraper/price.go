package scraper

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SeparatorConvention says how to read a comma in raw price text.
// Stores document their convention in their profile; the generic
// fallback assumes comma is a thousands separator. This is a known
// limitation: locale cannot be reliably inferred from a price string
// alone, so an ambiguous "1,299" is read as 1299, not 1.299.
type SeparatorConvention int

const (
	// CommaThousands reads "1,299.50" as 1299.50
	CommaThousands SeparatorConvention = iota
	// CommaDecimal reads "1.299,50" as 1299.50
	CommaDecimal
)

// ParsePrice converts raw price text into a non-negative amount.
// A zero result means "no price present"; callers must treat zero as
// absent, never as a literal free price.
func ParsePrice(text string, convention SeparatorConvention) decimal.Decimal {
	cleaned := stripNonNumeric(text)
	if cleaned == "" {
		return decimal.Zero
	}

	switch convention {
	case CommaDecimal:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	default:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// stripNonNumeric keeps only digits, commas and periods
func stripNonNumeric(text string) string {
	var b strings.Builder
	for _, c := range text {
		if (c >= '0' && c <= '9') || c == ',' || c == '.' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// DetectCurrency maps common symbols in price text to a currency code,
// or returns "" when nothing recognizable is present.
func DetectCurrency(text string) string {
	switch {
	case strings.Contains(text, "MXN"):
		return "MXN"
	case strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(text, "£"):
		return "GBP"
	case strings.Contains(text, "$"):
		return "USD"
	}
	return ""
}
