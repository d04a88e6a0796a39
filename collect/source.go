// Package collect downloads training images from public stock-photo APIs.
// Each source walks its search pages per category query, downloads every new
// photo, validates it decodes, and records it in the download ledger.
package collect

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // download validation
	_ "image/png"
	"io"
	"net/http"
	"os"
	"time"
)

// Category groups the search queries that feed one class of the scene
// classifier dataset.
type Category struct {
	Name        string
	Description string
	Queries     []string
	Target      int
}

// Source is one stock-photo API.
type Source interface {
	Name() string
	Search(query string, perPage, page int) ([]Photo, error)
}

// Photo is one downloadable search result.
type Photo struct {
	ID          string
	DownloadURL string
}

const (
	// Fixed inter-request delay keeps us inside the free-tier rate limits.
	rateLimitDelay = 1 * time.Second
	retryDelay     = 5 * time.Second
	maxRetries     = 3

	downloadTimeout = 30 * time.Second
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: downloadTimeout}
}

// downloadTo fetches url into path and verifies the payload decodes as an
// image; an invalid download is removed and reported as an error.
func downloadTo(client *http.Client, url, path string) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("download read failed: %w", err)
	}

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("downloaded file is not a valid image: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing image file: %v", err)
	}
	return nil
}
