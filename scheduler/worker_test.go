package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealwatch/models"

	"github.com/stretchr/testify/assert"
)

type fakeTracker struct {
	tracked []string
	failOn  map[string]bool
}

func (f *fakeTracker) Track(ctx context.Context, url string) (*models.Product, error) {
	if f.failOn[url] {
		return nil, errors.New("extraction failed")
	}
	f.tracked = append(f.tracked, url)
	return &models.Product{URL: url}, nil
}

func (f *fakeTracker) CleanupOlderThan(days int) (int, error) { return 0, nil }

type fakeLister struct {
	products []models.Product
	err      error
}

func (f *fakeLister) ListProductsByStore(store string) ([]models.Product, error) {
	return f.products, f.err
}

func newTestWorker(tracker *fakeTracker, lister *fakeLister) *Worker {
	return &Worker{
		tracker:  tracker,
		products: lister,
		delay:    0,
		timeout:  time.Second,
	}
}

func TestScrapeStoreTracksEveryProductInOrder(t *testing.T) {
	tracker := &fakeTracker{failOn: map[string]bool{}}
	lister := &fakeLister{products: []models.Product{
		{URL: "https://store/a", Title: "a"},
		{URL: "https://store/b", Title: "b"},
		{URL: "https://store/c", Title: "c"},
	}}

	w := newTestWorker(tracker, lister)
	w.scrapeStore("walmart")

	assert.Equal(t, []string{"https://store/a", "https://store/b", "https://store/c"}, tracker.tracked)
}

// A failing product is logged and skipped; the rest of the store run
// still happens.
func TestScrapeStoreSurvivesProductFailure(t *testing.T) {
	tracker := &fakeTracker{failOn: map[string]bool{"https://store/b": true}}
	lister := &fakeLister{products: []models.Product{
		{URL: "https://store/a", Title: "a"},
		{URL: "https://store/b", Title: "b"},
		{URL: "https://store/c", Title: "c"},
	}}

	w := newTestWorker(tracker, lister)
	w.scrapeStore("walmart")

	assert.Equal(t, []string{"https://store/a", "https://store/c"}, tracker.tracked)
}

func TestScrapeStoreListFailure(t *testing.T) {
	tracker := &fakeTracker{}
	lister := &fakeLister{err: errors.New("db down")}

	w := newTestWorker(tracker, lister)
	w.scrapeStore("walmart")

	assert.Empty(t, tracker.tracked)
}

func TestEveryMinutes(t *testing.T) {
	assert.Equal(t, "*/5 * * * *", everyMinutes(5))
	assert.Equal(t, "*/10 * * * *", everyMinutes(10))
	assert.Equal(t, "* * * * *", everyMinutes(1))
	assert.Equal(t, "*/5 * * * *", everyMinutes(0), "non-positive intervals fall back to 5")
}
