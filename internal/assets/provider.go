// Package assets loads static branding and diagram images and exposes them as
// inline data URIs so generated documents carry no external file references.
package assets

import (
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Provider resolves a static asset by filename into a data URI. A missing or
// unreadable asset yields an empty string, never an error; the document must
// still render with an empty slot in place of the image.
type Provider interface {
	DataURI(name string) string
}

// DiskProvider reads assets from a directory and caches the encoded result in
// memory. Assets are build-time static, so the cache never invalidates.
type DiskProvider struct {
	dir    string
	logger *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]string
}

// NewDiskProvider constructs a provider rooted at dir.
func NewDiskProvider(dir string, logger *slog.Logger) *DiskProvider {
	return &DiskProvider{dir: dir, logger: logger, cache: make(map[string]string)}
}

// DataURI returns the cached data URI for name, loading it on first use.
func (p *DiskProvider) DataURI(name string) string {
	if p == nil || name == "" {
		return ""
	}
	p.mu.RLock()
	uri, ok := p.cache[name]
	p.mu.RUnlock()
	if ok {
		return uri
	}

	v, _, _ := p.group.Do(name, func() (any, error) {
		uri, err := FileDataURI(filepath.Join(p.dir, name))
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("asset load failed", slog.String("asset", name), slog.Any("error", err))
			}
			// Failures are not cached so a later fix on disk takes effect.
			return "", nil
		}
		p.mu.Lock()
		p.cache[name] = uri
		p.mu.Unlock()
		return uri, nil
	})
	s, _ := v.(string)
	return s
}

// FileDataURI reads an arbitrary image file and encodes it as a data URI.
// Used directly for per-record uploads, which are not cached.
func FileDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:" + mimeForPath(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
