// Package testutils holds fixtures shared by the command, server and
// favicon tests: temporary projects, page files, source images and a
// ready configuration.
package testutils

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/conneroisu/seo/internal/config"
	"github.com/stretchr/testify/require"
)

// CreateTempProject creates a temporary project structure for testing
func CreateTempProject(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	for _, dir := range []string{"pages", "static", "public"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, dir), 0o755))
	}

	return tempDir
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteImage writes a solid w x h image to dir/name. A .jpg or .jpeg name
// is JPEG encoded, anything else PNG.
func WriteImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		require.NoError(t, jpeg.Encode(f, img, nil))
	default:
		require.NoError(t, png.Encode(f, img))
	}
	return path
}

// CreateTestConfig creates a test configuration rooted at projectDir.
func CreateTestConfig(projectDir string) *config.Config {
	return &config.Config{
		SEO: config.SEOConfig{
			Namespace:  "seo",
			Site:       "Acme",
			Extensions: map[string]bool{"og": true, "twitter": true},
			Defaults:   map[string]string{"og.type": "website"},
		},
		Services: config.ServicesConfig{
			Flipp: config.FlippConfig{
				Key:       "test-key",
				BaseURL:   "https://s.useflipp.com",
				Templates: map[string]string{"blog": "tmpl1"},
			},
		},
		Favicon: config.FaviconConfig{
			Source:    filepath.Join(projectDir, "static", "logo.png"),
			OutputDir: filepath.Join(projectDir, "public"),
		},
		Preview: config.PreviewConfig{
			Host: "127.0.0.1",
			Port: 0,
			Page: filepath.Join(projectDir, "pages", "page.yml"),
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
	}
}

// WaitForFileChange waits for a file to be modified (useful for testing file watchers)
func WaitForFileChange(
	t *testing.T,
	filePath string,
	originalModTime time.Time,
	timeout time.Duration,
) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		info, err := os.Stat(filePath)
		if err == nil && info.ModTime().After(originalModTime) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("File %s was not modified within %v", filePath, timeout)
}
