package tracker

import (
	"testing"

	"dealwatch/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detectOnce(t *testing.T, oldPrice, newPrice string) (*models.OfferEvent, *fakeOffers) {
	t.Helper()
	offers := &fakeOffers{}
	detector := NewOfferDetector(offers, decimal.NewFromInt(50), decimal.Zero)

	product := &models.Product{ID: "p1", Title: "Laptop gamer", Store: "amazon"}
	event, err := detector.Detect(product,
		decimal.RequireFromString(oldPrice), decimal.RequireFromString(newPrice))
	require.NoError(t, err)
	return event, offers
}

func TestDetectPriceIncreaseIgnored(t *testing.T) {
	event, offers := detectOnce(t, "100", "120")
	assert.Nil(t, event)
	assert.Empty(t, offers.events)
}

func TestDetectModerateDropIsOffer(t *testing.T) {
	event, offers := detectOnce(t, "100", "80")
	require.NotNil(t, event)
	assert.True(t, decimal.RequireFromString("20").Equal(event.DiscountPercent))
	assert.False(t, event.IsError)
	assert.Len(t, offers.events, 1)
}

func TestDetectSteepDropIsError(t *testing.T) {
	event, _ := detectOnce(t, "100", "40")
	require.NotNil(t, event)
	assert.True(t, decimal.RequireFromString("60").Equal(event.DiscountPercent))
	assert.True(t, event.IsError)
}

// A drop of exactly the threshold is still a regular offer; only
// strictly steeper drops are flagged as probable errors.
func TestDetectThresholdBoundary(t *testing.T) {
	event, _ := detectOnce(t, "100", "50")
	require.NotNil(t, event)
	assert.True(t, decimal.RequireFromString("50").Equal(event.DiscountPercent))
	assert.False(t, event.IsError)
}

// With a configured notification floor, small drops stay silent while
// anything at or above the floor is still recorded.
func TestDetectMinDiscountFloor(t *testing.T) {
	offers := &fakeOffers{}
	detector := NewOfferDetector(offers, decimal.NewFromInt(50), decimal.NewFromInt(15))
	product := &models.Product{ID: "p1", Title: "Laptop gamer", Store: "amazon"}

	event, err := detector.Detect(product,
		decimal.RequireFromString("100"), decimal.RequireFromString("90"))
	require.NoError(t, err)
	assert.Nil(t, event, "10%% drop is below the floor")
	assert.Empty(t, offers.events)

	event, err = detector.Detect(product,
		decimal.RequireFromString("100"), decimal.RequireFromString("80"))
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.True(t, decimal.RequireFromString("20").Equal(event.DiscountPercent))
}

func TestDetectSavings(t *testing.T) {
	event, _ := detectOnce(t, "1500", "999")
	require.NotNil(t, event)
	assert.True(t, decimal.RequireFromString("501").Equal(event.Savings()))
}
