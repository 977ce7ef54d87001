package assets

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestDiskProviderEncodesDataURI(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "logo.png", []byte{0x89, 'P', 'N', 'G'})

	p := NewDiskProvider(dir, nil)
	uri := p.DataURI("logo.png")
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	// Second lookup comes from the cache and must match.
	require.Equal(t, uri, p.DataURI("logo.png"))
}

func TestDiskProviderMissingAssetDegrades(t *testing.T) {
	p := NewDiskProvider(t.TempDir(), nil)
	require.Equal(t, "", p.DataURI("missing.png"))
	require.Equal(t, "", p.DataURI(""))
}

func TestDiskProviderConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "diagram-top.png", []byte("not-really-a-png"))

	p := NewDiskProvider(dir, nil)
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.DataURI("diagram-top.png")
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, results[0], r)
		require.NotEmpty(t, r)
	}
}

func TestFileDataURIMime(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "photo.JPG", []byte{0xff, 0xd8})

	uri, err := FileDataURI(filepath.Join(dir, "photo.JPG"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	_, err = FileDataURI(filepath.Join(dir, "absent.png"))
	require.Error(t, err)
}
