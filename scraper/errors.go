package scraper

import "errors"

// ErrFetchFailed reports a network failure, timeout, or blocked request.
// Callers retry on the next scheduled cycle, never immediately.
var ErrFetchFailed = errors.New("could not fetch product page")

// ErrExtractionIncomplete reports that title or price was still missing
// after every strategy ran.
var ErrExtractionIncomplete = errors.New("could not extract product data")
