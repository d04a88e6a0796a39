package dataset

import (
	"fmt"
	"image"
	_ "image/jpeg" // frame decode for dedupe hashing
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fedepasi/racetagger-training/utils"
)

// Ratios are the train/val/test proportions; they should sum to 1.
type Ratios struct {
	Train float64
	Val   float64
	Test  float64
}

// DefaultRatios mirrors the historical 70/20/10 split.
var DefaultRatios = Ratios{Train: 0.7, Val: 0.2, Test: 0.1}

// DedupeDistance is the Hamming threshold under which two frames count as
// near-duplicates within a label.
const DedupeDistance = 5

// SplitCounts reports the per-label outcome of a split.
type SplitCounts struct {
	Train      int
	Val        int
	Test       int
	Duplicates int
}

// Split distributes every label directory under labeledDir into
// outDir/{train,val,test}/<label>/, deduplicating near-identical images via
// average hash and shuffling deterministically with the given seed. Images
// that fail to decode are kept (no hash, no dedupe) rather than dropped.
func Split(labeledDir, outDir string, ratios Ratios, seed int64) (map[string]SplitCounts, error) {
	entries, err := os.ReadDir(labeledDir)
	if err != nil {
		return nil, fmt.Errorf("error reading labeled directory: %v", err)
	}

	rng := rand.New(rand.NewSource(seed))
	logger := utils.GetLogger()
	results := make(map[string]SplitCounts)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label := entry.Name()
		labelDir := filepath.Join(labeledDir, label)

		images, err := listImages(labelDir)
		if err != nil {
			return nil, err
		}

		kept, dupes := dedupe(images, logger)
		rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })

		trainEnd := int(float64(len(kept)) * ratios.Train)
		valEnd := trainEnd + int(float64(len(kept))*ratios.Val)

		counts := SplitCounts{Duplicates: dupes}
		for i, src := range kept {
			var bucket string
			switch {
			case i < trainEnd:
				bucket = "train"
				counts.Train++
			case i < valEnd:
				bucket = "val"
				counts.Val++
			default:
				bucket = "test"
				counts.Test++
			}

			dstDir := filepath.Join(outDir, bucket, label)
			if err := utils.CreateFolder(dstDir); err != nil {
				return nil, fmt.Errorf("error creating split directory: %s", err)
			}
			if err := copyFile(src, filepath.Join(dstDir, filepath.Base(src))); err != nil {
				return nil, fmt.Errorf("error copying %s: %v", src, err)
			}
		}
		results[label] = counts
	}

	return results, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %v", dir, err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// dedupe drops images whose average hash sits within DedupeDistance of an
// earlier image. The first of each near-duplicate group survives.
func dedupe(paths []string, logger interface {
	Warn(msg string, args ...any)
}) ([]string, int) {
	var kept []string
	var hashes []uint64
	dupes := 0

	for _, path := range paths {
		hash, ok := hashFile(path)
		if !ok {
			logger.Warn("could not hash image, keeping without dedupe", "path", path)
			kept = append(kept, path)
			continue
		}

		duplicate := false
		for _, seen := range hashes {
			if HammingDistance(hash, seen) <= DedupeDistance {
				duplicate = true
				break
			}
		}
		if duplicate {
			dupes++
			continue
		}

		hashes = append(hashes, hash)
		kept = append(kept, path)
	}
	return kept, dupes
}

func hashFile(path string) (uint64, bool) {
	file, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, false
	}
	return AverageHash(img), true
}
