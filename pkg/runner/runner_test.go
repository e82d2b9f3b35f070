package runner

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blog-readme/pkg/httpclient"
	"blog-readme/pkg/posts"
	"blog-readme/pkg/readme"
)

const baseURL = "https://longnh214.github.io/"

// mockFetcher is a mock implementation of posts.Fetcher for testing
type mockFetcher struct {
	result *posts.Result
	err    error
}

func (m *mockFetcher) Fetch(ctx context.Context, baseURL string, max int) (*posts.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockUpdater is a mock implementation of ReadmeUpdater for testing
type mockUpdater struct {
	err       error
	callCount int
	got       []posts.Post
}

func (m *mockUpdater) Update(list []posts.Post) (*readme.Result, error) {
	m.callCount++
	m.got = list
	if m.err != nil {
		return nil, m.err
	}
	return &readme.Result{Outcome: readme.Updated}, nil
}

func newTestLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

var samplePosts = []posts.Post{
	{Title: "Hello World", Link: baseURL + "posts/x/", Date: "2024-01-01"},
}

func TestRunner_Run_UpdatesReadme(t *testing.T) {
	updater := &mockUpdater{}
	logger, _ := newTestLogger()

	r := New(&mockFetcher{result: &posts.Result{Posts: samplePosts}}, updater, baseURL, 5, logger)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if updater.callCount != 1 {
		t.Fatalf("Expected 1 update, got %d", updater.callCount)
	}
	if len(updater.got) != 1 || updater.got[0] != samplePosts[0] {
		t.Errorf("Unexpected posts passed to updater: %v", updater.got)
	}
}

func TestRunner_Run_FetchErrorSkipsUpdate(t *testing.T) {
	updater := &mockUpdater{}
	logger, buf := newTestLogger()

	r := New(&mockFetcher{err: errors.New("connection refused")}, updater, baseURL, 5, logger)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run should not fail on fetch error, got: %v", err)
	}

	if updater.callCount != 0 {
		t.Error("Updater should not be called after a failed fetch")
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("Expected fetch error in log, got: %s", buf.String())
	}
}

func TestRunner_Run_EmptyResultDistinguishesLayoutChange(t *testing.T) {
	tests := []struct {
		name  string
		stats posts.Stats
		want  string
	}{
		{"no cards", posts.Stats{}, "page layout may have changed"},
		{"cards rejected", posts.Stats{Candidates: 4, Offsite: 4}, "4 post cards found but none qualified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := &mockUpdater{}
			logger, buf := newTestLogger()

			r := New(&mockFetcher{result: &posts.Result{Stats: tt.stats}}, updater, baseURL, 5, logger)
			if err := r.Run(context.Background()); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if updater.callCount != 0 {
				t.Error("Updater should not be called with no posts")
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %q in log, got: %s", tt.want, buf.String())
			}
		})
	}
}

func TestRunner_Run_NilResultSkipsUpdate(t *testing.T) {
	updater := &mockUpdater{}
	logger, buf := newTestLogger()

	r := New(&mockFetcher{}, updater, baseURL, 5, logger)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if updater.callCount != 0 {
		t.Error("Updater should not be called without a result")
	}
	if !strings.Contains(buf.String(), "README not updated") {
		t.Errorf("Expected skip message in log, got: %s", buf.String())
	}
}

func TestRunner_Run_HandledUpdaterErrors(t *testing.T) {
	for _, sentinel := range []error{readme.ErrReadmeNotFound, readme.ErrMarkerNotFound} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			logger, buf := newTestLogger()
			updater := &mockUpdater{err: sentinel}

			r := New(&mockFetcher{result: &posts.Result{Posts: samplePosts}}, updater, baseURL, 5, logger)
			if err := r.Run(context.Background()); err != nil {
				t.Fatalf("Run should not fail, got: %v", err)
			}
			if !strings.Contains(buf.String(), "ERROR") {
				t.Errorf("Expected an ERROR log line, got: %s", buf.String())
			}
		})
	}
}

func TestRunner_Run_WriteFailurePropagates(t *testing.T) {
	logger, _ := newTestLogger()
	updater := &mockUpdater{err: errors.New("disk full")}

	r := New(&mockFetcher{result: &posts.Result{Posts: samplePosts}}, updater, baseURL, 5, logger)
	if err := r.Run(context.Background()); err == nil {
		t.Fatal("Expected write failure to propagate")
	}
}

func TestRunner_Run_EmptyFetchLeavesReadmeUntouched(t *testing.T) {
	content := "---\nOLD\n---"
	path := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write README: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	logger, _ := newTestLogger()
	r := New(&mockFetcher{result: &posts.Result{}}, readme.NewUpdater(path, "---", "---"), baseURL, 5, logger)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read README: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if string(data) != content || !after.ModTime().Equal(before.ModTime()) {
		t.Error("README was modified by an empty run")
	}
}

func TestRunner_Run_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body>
<article class="card-wrapper card">
  <a href="/posts/x/" class="post-preview row g-0">
    <div class="card-body"><h1 class="card-title">Hello World</h1>
    <time data-ts="1704067200" data-df="ll">Jan 1, 2024</time></div>
  </a>
</article>
<article class="card-wrapper card">
  <a href="https://elsewhere.example.com/posts/y/" class="post-preview row g-0">
    <div class="card-body"><h1 class="card-title">Elsewhere</h1>
    <time data-ts="1704067200">Jan 1, 2024</time></div>
  </a>
</article>
</body></html>`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(path, []byte("# Me\n---\nOLD\n---\n"), 0o644); err != nil {
		t.Fatalf("Failed to write README: %v", err)
	}

	logger, _ := newTestLogger()
	fetcher := posts.NewHTMLFetcher(httpclient.NewClient(httpclient.BrowserClient), time.FixedZone("KST", 9*60*60))
	r := New(fetcher, readme.NewUpdater(path, "---", "---"), server.URL+"/", 5, logger)

	for i := 0; i < 2; i++ {
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run %d failed: %v", i+1, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read README: %v", err)
	}
	want := "# Me\n---\n- [Hello World](" + server.URL + "/posts/x/) [2024-01-01]\n---\n"
	if string(data) != want {
		t.Errorf("README mismatch:\n got: %q\nwant: %q", string(data), want)
	}
}
