// Package artifact persists rendered report files under a date-partitioned
// public directory.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const partitionLayout = "2006-01-02"

// SaveRequest describes a single artifact write.
type SaveRequest struct {
	// Partition selects the date directory (inspection date for PDI reports,
	// generation date for claim reports).
	Partition time.Time
	// NameParts are the human-identifying fields joined into the filename.
	NameParts []string
	// Data is the complete rendered document.
	Data []byte
}

// Store writes artifacts below a single root directory. Paths returned to
// callers are relative to the root, matching the URL path they are served at.
type Store struct {
	root string
}

// NewStore constructs a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root exposes the configured root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes the buffer in one shot and returns the relative artifact path.
// The partition directory is created if needed; an existing file at the
// target path is overwritten.
func (s *Store) Save(req SaveRequest) (string, error) {
	if s == nil || strings.TrimSpace(s.root) == "" {
		return "", fmt.Errorf("artifact: store not initialised")
	}
	if len(req.Data) == 0 {
		return "", fmt.Errorf("artifact: refusing to write empty document")
	}
	partition := req.Partition
	if partition.IsZero() {
		partition = time.Now()
	}
	name := Sanitize(strings.Join(req.NameParts, " "))
	if name == "" {
		return "", fmt.Errorf("artifact: no usable name parts")
	}
	rel := filepath.Join(partition.Format(partitionLayout), name+".pdf")
	dir := filepath.Join(s.root, partition.Format(partitionLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("artifact: create partition dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.root, rel), req.Data, 0o644); err != nil {
		return "", fmt.Errorf("artifact: write %s: %w", rel, err)
	}
	return rel, nil
}

// SweepBefore removes whole date partitions strictly older than cutoff and
// returns how many were removed. Directories that are not date partitions
// are left alone.
func (s *Store) SweepBefore(cutoff time.Time) (int, error) {
	if s == nil || strings.TrimSpace(s.root) == "" {
		return 0, fmt.Errorf("artifact: store not initialised")
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("artifact: sweep: %w", err)
	}
	day := cutoff.Format(partitionLayout)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := time.Parse(partitionLayout, entry.Name()); err != nil {
			continue
		}
		if entry.Name() >= day {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			return removed, fmt.Errorf("artifact: sweep %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
var dashRuns = regexp.MustCompile(`-{2,}`)

// Sanitize converts human-identifying text into a filesystem-safe filename
// fragment: unsafe characters and whitespace collapse to a dash separator.
func Sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(strings.TrimSpace(s), "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-.")
}
