// Package dataset turns a finalized extraction run into labeled image
// corpora: a per-label directory tree, a deduplicated train/val/test split
// and a flat upload-ready export.
package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fedepasi/racetagger-training/store"
	"github.com/fedepasi/racetagger-training/utils"
)

// UnlabeledDir is the bucket for frames whose scene never received a label.
const UnlabeledDir = "unlabeled"

// OrganizeStats counts copied frames per label.
type OrganizeStats map[string]int

// Organize copies every frame into labeledDir/<label>/<filename>, skipping
// frames that belong to a tombstoned scene. The metadata is not mutated. A
// missing source frame is logged and skipped, never fatal to the batch.
// progress, when non-nil, is called once per frame considered.
func Organize(meta *store.Metadata, framesDir, labeledDir string, progress func()) (OrganizeStats, error) {
	logger := utils.GetLogger()

	scenesByID := make(map[int]string, len(meta.Scenes))
	for _, sc := range meta.Scenes {
		scenesByID[sc.SceneID] = sc.Label
	}

	stats := make(OrganizeStats)
	for _, frame := range meta.Frames {
		if progress != nil {
			progress()
		}
		if meta.IsDeleted(frame.SceneID) {
			continue
		}

		label := scenesByID[frame.SceneID]
		if label == "" {
			label = UnlabeledDir
		}

		labelDir := filepath.Join(labeledDir, label)
		if err := utils.CreateFolder(labelDir); err != nil {
			return nil, fmt.Errorf("error creating label directory %s: %s", labelDir, err)
		}

		src := filepath.Join(framesDir, frame.Filename)
		dst := filepath.Join(labelDir, frame.Filename)
		if err := copyFile(src, dst); err != nil {
			if os.IsNotExist(err) {
				logger.Warn("source frame missing, skipping",
					"filename", frame.Filename, "scene_id", frame.SceneID)
				continue
			}
			return nil, fmt.Errorf("error copying %s: %v", frame.Filename, err)
		}
		stats[label]++
	}

	return stats, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
