package posts

import (
	"context"
	"fmt"
)

// Post is one entry of the blog index. Two posts are the same post when all
// three fields match.
type Post struct {
	Title string
	Link  string // absolute, under the blog base URL
	Date  string // YYYY-MM-DD, or the raw date text when no timestamp exists
}

func (p Post) String() string {
	return fmt.Sprintf("%s (%s) [%s]", p.Title, p.Link, p.Date)
}

// Stats records what happened to the candidates seen during one fetch
type Stats struct {
	Candidates int // post cards or feed items found
	Incomplete int // missing title, link or date
	Offsite    int // link outside the base URL
	BadDate    int // unparseable timestamp
	Duplicates int
}

// Skipped returns the number of candidates that did not produce a post
func (s Stats) Skipped() int {
	return s.Incomplete + s.Offsite + s.BadDate + s.Duplicates
}

// Result is the outcome of a fetch: the posts in source order, capped at the
// requested count, and the per-candidate stats.
type Result struct {
	Posts []Post
	Stats Stats
}

// Fetcher fetches the latest posts of the blog at baseURL, at most max of them
type Fetcher interface {
	Fetch(ctx context.Context, baseURL string, max int) (*Result, error)
}
