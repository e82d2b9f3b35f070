package readme

import (
	"errors"
	"fmt"
	"strings"

	"blog-readme/pkg/posts"
)

// ErrMarkerNotFound is returned when the start or end marker is missing
var ErrMarkerNotFound = errors.New("marker not found")

// Render renders posts as a Markdown list, one "- [title](link) [date]" line each
func Render(list []posts.Post) string {
	lines := make([]string, 0, len(list))
	for _, p := range list {
		lines = append(lines, fmt.Sprintf("- [%s](%s) [%s]", p.Title, p.Link, p.Date))
	}
	return strings.Join(lines, "\n")
}

// Replace swaps the first marked section of content for block. The section
// runs from the first start marker through the next end marker after it,
// both included; when the markers are the same string the first two
// occurrences delimit it.
func Replace(content, start, end, block string) (string, error) {
	i := strings.Index(content, start)
	if i < 0 {
		return "", fmt.Errorf("start marker %q: %w", start, ErrMarkerNotFound)
	}
	afterStart := i + len(start)

	j := strings.Index(content[afterStart:], end)
	if j < 0 {
		return "", fmt.Errorf("end marker %q: %w", end, ErrMarkerNotFound)
	}
	afterEnd := afterStart + j + len(end)

	var b strings.Builder
	b.Grow(len(content) - (afterEnd - i) + len(start) + len(block) + len(end) + 2)
	b.WriteString(content[:i])
	b.WriteString(start)
	b.WriteString("\n")
	b.WriteString(block)
	b.WriteString("\n")
	b.WriteString(end)
	b.WriteString(content[afterEnd:])
	return b.String(), nil
}
