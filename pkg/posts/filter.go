package posts

import (
	"net/url"
	"strings"
)

// collector applies the acceptance rules shared by every fetcher: all fields
// present, link under the base URL, no duplicates, at most max posts.
type collector struct {
	baseURL string
	max     int
	seen    map[Post]bool
	result  *Result
}

func newCollector(baseURL string, max int) *collector {
	if max < 0 {
		max = 0
	}
	return &collector{
		baseURL: baseURL,
		max:     max,
		seen:    make(map[Post]bool),
		result:  &Result{Posts: make([]Post, 0, max)},
	}
}

// candidate counts one more card or item seen in the source
func (c *collector) candidate() {
	c.result.Stats.Candidates++
}

// add offers a post and reports whether it was kept
func (c *collector) add(p Post) bool {
	if p.Title == "" || p.Link == "" || p.Date == "" {
		c.result.Stats.Incomplete++
		return false
	}
	if !strings.HasPrefix(p.Link, c.baseURL) {
		c.result.Stats.Offsite++
		return false
	}
	if c.seen[p] {
		c.result.Stats.Duplicates++
		return false
	}
	c.seen[p] = true
	c.result.Posts = append(c.result.Posts, p)
	return true
}

func (c *collector) full() bool {
	return len(c.result.Posts) >= c.max
}

// ResolveLink turns an href found on the index page into an absolute URL.
// Absolute hrefs are returned unchanged and protocol-relative ones ("//host/x")
// take the base scheme; anything else is joined under the base URL, so
// "/posts/x/" and "posts/x/" both land below the base path.
func ResolveLink(baseURL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", nil
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(href, "//") {
		resolved, err := base.Parse(href)
		if err != nil {
			return "", err
		}
		return resolved.String(), nil
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	resolved, err := base.Parse(strings.TrimLeft(href, "/"))
	if err != nil {
		return "", err
	}
	return resolved.String(), nil
}
