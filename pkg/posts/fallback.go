package posts

import (
	"context"
	"log"
)

// FallbackFetcher tries Primary and, when it fails or yields nothing, Secondary
type FallbackFetcher struct {
	Primary   Fetcher
	Secondary Fetcher
}

// NewFallbackFetcher creates a fetcher chaining primary and secondary
func NewFallbackFetcher(primary, secondary Fetcher) *FallbackFetcher {
	return &FallbackFetcher{
		Primary:   primary,
		Secondary: secondary,
	}
}

// Fetch implements Fetcher
func (f *FallbackFetcher) Fetch(ctx context.Context, baseURL string, max int) (*Result, error) {
	result, err := f.Primary.Fetch(ctx, baseURL, max)
	if err == nil && len(result.Posts) > 0 {
		return result, nil
	}
	if err != nil {
		log.Printf("FallbackFetcher: Primary failed: %v", err)
	} else {
		log.Printf("FallbackFetcher: Primary returned no posts (%d candidates)", result.Stats.Candidates)
	}

	secondary, err2 := f.Secondary.Fetch(ctx, baseURL, max)
	if err2 != nil {
		if err != nil {
			return nil, err2
		}
		// keep the primary's stats, they explain the empty result
		log.Printf("FallbackFetcher: Secondary failed: %v", err2)
		return result, nil
	}
	return secondary, nil
}
