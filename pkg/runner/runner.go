package runner

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blog-readme/pkg/posts"
	"blog-readme/pkg/readme"
)

// ReadmeUpdater writes posts into the README
type ReadmeUpdater interface {
	Update(list []posts.Post) (*readme.Result, error)
}

// Runner performs one fetch-then-update pass
type Runner struct {
	fetcher  posts.Fetcher
	updater  ReadmeUpdater
	baseURL  string
	maxPosts int
	logger   *log.Logger
}

// New creates a runner. A nil logger means the standard logger.
func New(fetcher posts.Fetcher, updater ReadmeUpdater, baseURL string, maxPosts int, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		fetcher:  fetcher,
		updater:  updater,
		baseURL:  baseURL,
		maxPosts: maxPosts,
		logger:   logger,
	}
}

// Run fetches the latest posts and updates the README. A failed fetch, an
// empty result, a missing README and missing markers are all logged and end
// the run without error; only unexpected I/O failures are returned.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Printf("Runner: Fetching latest posts from %s", r.baseURL)

	result, err := r.fetcher.Fetch(ctx, r.baseURL, r.maxPosts)
	if err != nil {
		r.logger.Printf("Runner: ERROR fetching posts from %s: %v", r.baseURL, err)
		r.logger.Printf("Runner: No posts fetched, README not updated")
		return nil
	}

	if result == nil {
		result = &posts.Result{}
	}
	if len(result.Posts) == 0 {
		r.logEmpty(result.Stats)
		return nil
	}

	for i, p := range result.Posts {
		r.logger.Printf("Runner: Post %d: %s", i+1, p)
	}

	res, err := r.updater.Update(result.Posts)
	switch {
	case errors.Is(err, readme.ErrReadmeNotFound):
		r.logger.Printf("Runner: ERROR %v, check the README path", err)
		return nil
	case errors.Is(err, readme.ErrMarkerNotFound):
		r.logger.Printf("Runner: ERROR %v, add both markers to the README", err)
		return nil
	case err != nil:
		return fmt.Errorf("failed to update README: %w", err)
	}

	r.logger.Printf("Runner: README %s (%d posts)", res.Outcome, len(result.Posts))
	if res.Outcome == readme.WouldUpdate {
		r.logger.Printf("Runner: New README content:\n%s", res.Content)
	}
	return nil
}

// logEmpty tells a page without any post cards (likely a redesign that broke
// the selectors) apart from cards that were all rejected.
func (r *Runner) logEmpty(stats posts.Stats) {
	if stats.Candidates == 0 {
		r.logger.Printf("Runner: WARNING no post cards found at %s, the page layout may have changed", r.baseURL)
	} else {
		r.logger.Printf("Runner: WARNING %d post cards found but none qualified (incomplete=%d offsite=%d bad_date=%d duplicates=%d)",
			stats.Candidates, stats.Incomplete, stats.Offsite, stats.BadDate, stats.Duplicates)
	}
	r.logger.Printf("Runner: No posts fetched, README not updated")
}
