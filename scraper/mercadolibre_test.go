package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractItemID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://articulo.mercadolibre.com.mx/MLM-1234567890-laptop-gamer-_JM", "MLM1234567890"},
		{"https://www.mercadolibre.com.mx/producto/p/MLM987654321", "MLM987654321"},
		{"https://www.mercadolibre.com.ar/item/MLA-555123", "MLA555123"},
		{"https://articulo.mercadolibre.com.mx/mlm-42-algo-_JM", "MLM42"},
	}

	for _, tt := range tests {
		got, err := ExtractItemID(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestExtractItemIDMissing(t *testing.T) {
	_, err := ExtractItemID("https://www.mercadolibre.com.mx/ofertas")
	assert.Error(t, err)
}
