package posts

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"blog-readme/pkg/httpclient"

	"github.com/mmcdole/gofeed"
)

// FeedFetcher reads posts from the blog's Atom/RSS feed
type FeedFetcher struct {
	client     *httpclient.HTTPClient
	feedParser *gofeed.Parser
	feedPath   string
	location   *time.Location
}

// NewFeedFetcher creates a fetcher for the feed at feedPath under the base URL
func NewFeedFetcher(client *httpclient.HTTPClient, feedPath string, loc *time.Location) *FeedFetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &FeedFetcher{
		client:     client,
		feedParser: gofeed.NewParser(),
		feedPath:   strings.TrimPrefix(feedPath, "/"),
		location:   loc,
	}
}

// Fetch implements Fetcher
func (f *FeedFetcher) Fetch(ctx context.Context, baseURL string, max int) (*Result, error) {
	feedURL := FeedURL(baseURL, f.feedPath)
	log.Printf("FeedFetcher: Fetching %s", feedURL)

	resp, err := f.client.Get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	feed, err := f.feedParser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	c := newCollector(baseURL, max)
	for _, item := range feed.Items {
		if c.full() {
			break
		}
		c.candidate()

		link, err := ResolveLink(baseURL, item.Link)
		if err != nil {
			c.result.Stats.Incomplete++
			continue
		}
		c.add(Post{
			Title: strings.TrimSpace(item.Title),
			Link:  link,
			Date:  f.itemDate(item),
		})
	}

	log.Printf("FeedFetcher: Found %d items, kept %d posts", c.result.Stats.Candidates, len(c.result.Posts))
	return c.result, nil
}

func (f *FeedFetcher) itemDate(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return FormatDate(*item.PublishedParsed, f.location)
	case item.UpdatedParsed != nil:
		return FormatDate(*item.UpdatedParsed, f.location)
	case item.Published != "":
		return strings.TrimSpace(item.Published)
	default:
		return strings.TrimSpace(item.Updated)
	}
}

// FeedURL returns the absolute URL of the feed at feedPath under baseURL
func FeedURL(baseURL, feedPath string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(feedPath, "/")
}
