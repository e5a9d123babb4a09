package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAmazonLink(t *testing.T) {
	links := &AffiliateLinks{AmazonTag: "dealwatch-20"}

	got := links.Build("https://www.amazon.com.mx/dp/B0ABC123", "amazon")
	assert.Equal(t, "https://www.amazon.com.mx/dp/B0ABC123?tag=dealwatch-20", got)
}

func TestBuildAmazonLinkReplacesExistingTag(t *testing.T) {
	links := &AffiliateLinks{AmazonTag: "dealwatch-20"}

	got := links.Build("https://www.amazon.com.mx/dp/B0ABC123?tag=someoneelse-21", "amazon")
	assert.Equal(t, "https://www.amazon.com.mx/dp/B0ABC123?tag=dealwatch-20", got)
}

func TestBuildMercadoLibreLink(t *testing.T) {
	links := &AffiliateLinks{MercadoLibreID: "dealwatch"}

	got := links.Build("https://articulo.mercadolibre.com.mx/MLM-123-item-_JM", "mercadolibre")
	assert.Contains(t, got, "utm_source=dealwatch")
	assert.Contains(t, got, "utm_medium=affiliate")
}

func TestBuildUnknownStorePassthrough(t *testing.T) {
	links := &AffiliateLinks{AmazonTag: "dealwatch-20", MercadoLibreID: "dealwatch"}

	raw := "https://www.liverpool.com.mx/tienda/pdp/producto/1234"
	assert.Equal(t, raw, links.Build(raw, "liverpool"))
}

func TestBuildWithoutConfiguredProgram(t *testing.T) {
	links := &AffiliateLinks{}

	raw := "https://www.amazon.com.mx/dp/B0ABC123"
	assert.Equal(t, raw, links.Build(raw, "amazon"))
}
