package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectStore(t *testing.T) {
	testCases := []struct {
		url   string
		store string
	}{
		{"https://www.mercadolibre.com.mx/producto/p/MLM123456", "mercadolibre"},
		{"https://articulo.mercadolivre.com.br/MLB-123-produto", "mercadolibre"},
		{"https://www.amazon.com.mx/dp/B08N5WRWNW", "amazon"},
		{"https://www.amazon.com/dp/B08N5WRWNW", "amazon"},
		{"https://www.liverpool.com.mx/tienda/pdp/producto/12345678", "liverpool"},
		{"https://www.walmart.com.mx/producto/12345678", "walmart"},
		{"https://www.apple.com/mx/shop/buy-iphone/iphone-15-pro", "apple"},
		{"https://www.bestbuy.com.mx/p/pantalla/6443200", "bestbuy"},
		{"https://www.some-random-shop.com/products/thing", StoreUnknown},
	}

	for _, tc := range testCases {
		store, err := DetectStore(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.store, store, tc.url)
	}
}

func TestDetectStoreMalformedURL(t *testing.T) {
	_, err := DetectStore("://not-a-url")
	assert.Error(t, err)

	_, err = DetectStore("just some text")
	assert.Error(t, err)
}
