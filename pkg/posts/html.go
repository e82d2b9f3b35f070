package posts

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blog-readme/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

// Selectors for the post cards of a Jekyll Chirpy index page
const (
	cardSelector  = "article.card-wrapper.card"
	linkSelector  = "a.post-preview"
	titleSelector = "h1.card-title"
	timeSelector  = "time"

	// data-ts carries the publish time as Unix epoch seconds
	timestampAttr = "data-ts"

	dateLayout = "2006-01-02"
)

// HTMLFetcher fetches the blog index page and extracts posts from its cards
type HTMLFetcher struct {
	client   *httpclient.HTTPClient
	location *time.Location
}

// NewHTMLFetcher creates a new HTML fetcher that renders dates in loc
func NewHTMLFetcher(client *httpclient.HTTPClient, loc *time.Location) *HTMLFetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &HTMLFetcher{
		client:   client,
		location: loc,
	}
}

// Fetch implements Fetcher. Any transport error or non-2xx status fails the
// whole fetch; nothing is retried.
func (f *HTMLFetcher) Fetch(ctx context.Context, baseURL string, max int) (*Result, error) {
	log.Printf("HTMLFetcher: Fetching %s", baseURL)
	resp, err := f.client.Get(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	result, err := ExtractPosts(resp.Body, baseURL, f.location, max)
	if err != nil {
		return nil, err
	}
	log.Printf("HTMLFetcher: Found %d cards, kept %d posts", result.Stats.Candidates, len(result.Posts))
	return result, nil
}

// ExtractPosts parses an index page and returns up to max posts in document
// order. Cards missing a link, title or date, cards linking outside baseURL,
// cards with an unparseable timestamp and duplicates are skipped.
func ExtractPosts(r io.Reader, baseURL string, loc *time.Location, max int) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	c := newCollector(baseURL, max)
	doc.Find(cardSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if c.full() {
			return false
		}
		c.candidate()

		link, err := cardLink(card, baseURL)
		if err != nil {
			log.Printf("ExtractPosts: Skipping card %d, bad link: %v", i, err)
			c.result.Stats.Incomplete++
			return true
		}

		date, err := cardDate(card, loc)
		if err != nil {
			log.Printf("ExtractPosts: Skipping card %d (%s): %v", i, link, err)
			c.result.Stats.BadDate++
			return true
		}

		c.add(Post{
			Title: cardTitle(card),
			Link:  link,
			Date:  date,
		})
		return !c.full()
	})

	return c.result, nil
}

func cardLink(card *goquery.Selection, baseURL string) (string, error) {
	href, exists := card.Find(linkSelector).First().Attr("href")
	if !exists {
		return "", nil
	}
	return ResolveLink(baseURL, href)
}

func cardTitle(card *goquery.Selection) string {
	heading := card.Find(titleSelector).First()
	if heading.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(heading.Text())
}

// cardDate prefers the epoch timestamp attribute and falls back to the
// visible text of the time element.
func cardDate(card *goquery.Selection, loc *time.Location) (string, error) {
	node := card.Find(timeSelector).First()
	if node.Length() == 0 {
		return "", nil
	}

	if ts, ok := node.Attr(timestampAttr); ok {
		secs, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid %s %q: %w", timestampAttr, ts, err)
		}
		return FormatDate(time.Unix(secs, 0), loc), nil
	}

	return strings.TrimSpace(node.Text()), nil
}

// FormatDate renders t as YYYY-MM-DD in loc
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}
