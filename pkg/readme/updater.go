package readme

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"blog-readme/pkg/posts"
)

// ErrReadmeNotFound is returned when the README file does not exist
var ErrReadmeNotFound = errors.New("readme not found")

// Outcome describes what Update did to the file
type Outcome int

const (
	// Unchanged means the section already held the rendered posts
	Unchanged Outcome = iota
	// Updated means the file was rewritten
	Updated
	// WouldUpdate means a dry run found a change and wrote nothing
	WouldUpdate
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case WouldUpdate:
		return "would update"
	default:
		return "unchanged"
	}
}

// Result is the outcome of an update together with the new file content
type Result struct {
	Outcome Outcome
	Content string
}

// Updater rewrites the marked section of a README file
type Updater struct {
	Path        string
	StartMarker string
	EndMarker   string
	DryRun      bool
}

// NewUpdater creates an updater for the README at path
func NewUpdater(path, startMarker, endMarker string) *Updater {
	return &Updater{
		Path:        path,
		StartMarker: startMarker,
		EndMarker:   endMarker,
	}
}

// Update renders list into the marked section. The file is written only
// when its content changes, and then in full via a temp file and rename.
func (u *Updater) Update(list []posts.Post) (*Result, error) {
	original, err := os.ReadFile(u.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", u.Path, ErrReadmeNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", u.Path, err)
	}

	updated, err := Replace(string(original), u.StartMarker, u.EndMarker, Render(list))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.Path, err)
	}

	if updated == string(original) {
		log.Printf("Updater: %s has no changes, skipping write", u.Path)
		return &Result{Outcome: Unchanged, Content: updated}, nil
	}

	if u.DryRun {
		log.Printf("Updater: Dry run, %s would be updated with %d posts", u.Path, len(list))
		return &Result{Outcome: WouldUpdate, Content: updated}, nil
	}

	if err := writeFileAtomic(u.Path, []byte(updated)); err != nil {
		return nil, err
	}
	log.Printf("Updater: Updated %s with %d posts", u.Path, len(list))
	return &Result{Outcome: Updated, Content: updated}, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over
// path, keeping the original permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set mode on temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
