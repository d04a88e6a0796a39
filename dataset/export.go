package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fedepasi/racetagger-training/utils"
)

// Export flattens the labeled tree into exportDir/images with label-prefixed
// filenames plus a classes.txt listing every label except the unlabeled
// bucket. The layout is ready for bbox-annotation tool upload.
func Export(labeledDir, exportDir string) (int, OrganizeStats, error) {
	imagesDir := filepath.Join(exportDir, "images")
	if err := utils.CreateFolder(imagesDir); err != nil {
		return 0, nil, fmt.Errorf("error creating export directory: %s", err)
	}

	entries, err := os.ReadDir(labeledDir)
	if err != nil {
		return 0, nil, fmt.Errorf("error reading labeled directory: %v", err)
	}

	total := 0
	stats := make(OrganizeStats)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label := entry.Name()
		images, err := listImages(filepath.Join(labeledDir, label))
		if err != nil {
			return 0, nil, err
		}
		for _, src := range images {
			dst := filepath.Join(imagesDir, fmt.Sprintf("%s_%s", label, filepath.Base(src)))
			if err := copyFile(src, dst); err != nil {
				return 0, nil, fmt.Errorf("error copying %s: %v", src, err)
			}
			total++
			stats[label]++
		}
	}

	classes := make([]string, 0, len(stats))
	for label := range stats {
		if label != UnlabeledDir {
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)

	classesPath := filepath.Join(exportDir, "classes.txt")
	content := strings.Join(classes, "\n")
	if len(classes) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(classesPath, []byte(content), 0644); err != nil {
		return 0, nil, fmt.Errorf("error writing classes.txt: %v", err)
	}

	return total, stats, nil
}
