package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"blog-readme/pkg/config"
	"blog-readme/pkg/httpclient"
	"blog-readme/pkg/posts"
	"blog-readme/pkg/readme"
	"blog-readme/pkg/runner"
)

func main() {
	defaults := config.Default()

	var (
		baseURL     = flag.String("url", defaults.BaseURL, "Blog base URL; also the prefix every post link must start with")
		readmePath  = flag.String("readme", defaults.ReadmePath, "README file to update")
		maxPosts    = flag.Int("max", defaults.MaxPosts, "Max posts to list")
		startMarker = flag.String("start-marker", defaults.StartMarker, "Marker opening the posts section")
		endMarker   = flag.String("end-marker", defaults.EndMarker, "Marker closing the posts section")
		source      = flag.String("source", string(defaults.Source), "Where to read posts from: html, feed or auto (html, then feed)")
		feedPath    = flag.String("feed", defaults.FeedPath, "Feed path under the base URL, used by -source feed|auto")
		clientType  = flag.String("client", string(defaults.ClientType), "HTTP header profile: browser, curl or default")
		dryRun      = flag.Bool("dry-run", false, "Print the new section instead of writing the README")
	)
	flag.Parse()

	ct, err := httpclient.ParseClientType(*clientType)
	if err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	cfg := defaults
	cfg.BaseURL = *baseURL
	cfg.ReadmePath = *readmePath
	cfg.MaxPosts = *maxPosts
	cfg.StartMarker = *startMarker
	cfg.EndMarker = *endMarker
	cfg.Source = config.Source(*source)
	cfg.FeedPath = *feedPath
	cfg.ClientType = ct
	cfg.DryRun = *dryRun
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := httpclient.NewClient(cfg.ClientType)
	updater := readme.NewUpdater(cfg.ReadmePath, cfg.StartMarker, cfg.EndMarker)
	updater.DryRun = cfg.DryRun

	r := runner.New(newFetcher(cfg, client), updater, cfg.BaseURL, cfg.MaxPosts, nil)
	if err := r.Run(ctx); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

func newFetcher(cfg config.Config, client *httpclient.HTTPClient) posts.Fetcher {
	htmlFetcher := posts.NewHTMLFetcher(client, cfg.Location)
	feedFetcher := posts.NewFeedFetcher(client, cfg.FeedPath, cfg.Location)

	switch cfg.Source {
	case config.SourceFeed:
		return feedFetcher
	case config.SourceAuto:
		return posts.NewFallbackFetcher(htmlFetcher, feedFetcher)
	default:
		return htmlFetcher
	}
}
