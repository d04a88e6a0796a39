package collect

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/fedepasi/racetagger-training/db"
	"github.com/fedepasi/racetagger-training/utils"
)

// Collector walks a source's search results category by category, skipping
// photos already present in the ledger.
type Collector struct {
	source  Source
	ledger  db.Client
	perPage int
}

// NewCollector builds a collector over a source and a download ledger.
// The ledger may be nil, in which case only on-disk presence prevents
// re-downloads.
func NewCollector(source Source, ledger db.Client, perPage int) *Collector {
	if perPage <= 0 {
		perPage = 30
	}
	return &Collector{source: source, ledger: ledger, perPage: perPage}
}

// CollectCategory downloads up to cat.Target new images into outputDir,
// spreading requests across the category's queries. Individual failures are
// warned and skipped; a query that keeps failing is abandoned after a bounded
// number of retries.
func (c *Collector) CollectCategory(cat Category, outputDir string) (int, error) {
	if err := utils.CreateFolder(outputDir); err != nil {
		return 0, fmt.Errorf("error creating output directory: %s", err)
	}

	logger := utils.GetLogger()
	client := newHTTPClient()
	bar := progressbar.Default(int64(cat.Target), cat.Name)

	downloaded := 0
	for _, query := range cat.Queries {
		if downloaded >= cat.Target {
			break
		}

		page := 1
		failures := 0
		for downloaded < cat.Target {
			photos, err := c.source.Search(query, c.perPage, page)
			if err != nil {
				failures++
				logger.Warn("search failed",
					"source", c.source.Name(), "query", query, "error", err.Error())
				if failures >= maxRetries {
					break
				}
				time.Sleep(retryDelay)
				continue
			}
			if len(photos) == 0 {
				break
			}

			for _, photo := range photos {
				if downloaded >= cat.Target {
					break
				}

				already, err := c.alreadyDownloaded(photo.ID)
				if err != nil {
					logger.Warn("ledger lookup failed", "photo_id", photo.ID, "error", err.Error())
				}
				if already {
					continue
				}

				filename := fmt.Sprintf("%s_%s.jpg", c.source.Name(), photo.ID)
				path := filepath.Join(outputDir, filename)
				if err := downloadTo(client, photo.DownloadURL, path); err != nil {
					logger.Warn("download failed", "photo_id", photo.ID, "error", err.Error())
					time.Sleep(rateLimitDelay)
					continue
				}

				if c.ledger != nil {
					err := c.ledger.MarkDownloaded(db.Download{
						Source:   c.source.Name(),
						PhotoID:  photo.ID,
						Category: cat.Name,
						Path:     path,
					})
					if err != nil {
						logger.Warn("ledger write failed", "photo_id", photo.ID, "error", err.Error())
					}
				}

				downloaded++
				bar.Add(1)
				time.Sleep(rateLimitDelay)
			}

			page++
			time.Sleep(rateLimitDelay)
		}
	}

	return downloaded, nil
}

func (c *Collector) alreadyDownloaded(photoID string) (bool, error) {
	if c.ledger == nil {
		return false, nil
	}
	return c.ledger.IsDownloaded(c.source.Name(), photoID)
}
