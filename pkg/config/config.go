package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"blog-readme/pkg/httpclient"
)

// Source selects where posts are read from
type Source string

const (
	// SourceHTML scrapes post cards from the blog index page
	SourceHTML Source = "html"

	// SourceFeed reads the blog's Atom/RSS feed
	SourceFeed Source = "feed"

	// SourceAuto tries the index page first and falls back to the feed
	SourceAuto Source = "auto"
)

const (
	DefaultBaseURL     = "https://longnh214.github.io/"
	DefaultReadmePath  = "README.md"
	DefaultStartMarker = "<!-- BLOG-POST-LIST:START -->"
	DefaultEndMarker   = "<!-- BLOG-POST-LIST:END -->"
	DefaultMaxPosts    = 5
	DefaultFeedPath    = "feed.xml"

	// Post dates are rendered in KST regardless of the host timezone
	DefaultZoneName   = "KST"
	DefaultZoneOffset = 9 * 60 * 60
)

// Config holds everything a run needs. Defaults are compiled in; the CLI may
// override them with flags.
type Config struct {
	BaseURL     string
	ReadmePath  string
	StartMarker string
	EndMarker   string
	MaxPosts    int
	Location    *time.Location
	Source      Source
	FeedPath    string
	ClientType  httpclient.ClientType
	DryRun      bool
}

// Default returns the compiled-in configuration
func Default() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		ReadmePath:  DefaultReadmePath,
		StartMarker: DefaultStartMarker,
		EndMarker:   DefaultEndMarker,
		MaxPosts:    DefaultMaxPosts,
		Location:    time.FixedZone(DefaultZoneName, DefaultZoneOffset),
		Source:      SourceHTML,
		FeedPath:    DefaultFeedPath,
		ClientType:  httpclient.BrowserClient,
	}
}

// Validate checks the configuration and normalizes the base URL so that it
// always ends with a slash.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base URL %q must be absolute", c.BaseURL)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}

	if c.ReadmePath == "" {
		return fmt.Errorf("readme path is required")
	}
	if c.StartMarker == "" || c.EndMarker == "" {
		return fmt.Errorf("start and end markers are required")
	}
	if c.MaxPosts < 1 {
		return fmt.Errorf("max posts must be at least 1, got %d", c.MaxPosts)
	}

	switch c.Source {
	case SourceHTML, SourceFeed, SourceAuto:
	default:
		return fmt.Errorf("unknown source %q (want html, feed or auto)", c.Source)
	}

	if c.Location == nil {
		c.Location = time.FixedZone(DefaultZoneName, DefaultZoneOffset)
	}
	return nil
}
