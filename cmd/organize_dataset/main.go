// organize_dataset copies labeled frames into per-label directories, skipping
// every frame that belongs to a deleted scene.
package main

import (
	"errors"
	"flag"
	"log"
	"sort"

	"github.com/schollz/progressbar/v3"

	"github.com/fedepasi/racetagger-training/dataset"
	"github.com/fedepasi/racetagger-training/store"
)

func main() {
	inputDir := flag.String("input", "", "Directory with extracted frames")
	flag.Parse()

	if *inputDir == "" {
		log.Fatal("Usage: organize_dataset -input <dir>")
	}

	st := store.New(*inputDir)
	meta, err := st.Load()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Fatalf("ERROR: no metadata found in %s. Run extract_frames first.", *inputDir)
		}
		log.Fatalf("ERROR: %v", err)
	}

	if remaining := countUnlabeled(meta); remaining > 0 {
		log.Printf("WARNING: %d scenes are still unlabeled; their frames go to %s/\n",
			remaining, dataset.UnlabeledDir)
	}

	bar := progressbar.Default(int64(len(meta.Frames)), "organizing")
	stats, err := dataset.Organize(meta, st.FramesDir(), st.LabeledDir(), func() { bar.Add(1) })
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	labels := make([]string, 0, len(stats))
	total := 0
	for label, count := range stats {
		labels = append(labels, label)
		total += count
	}
	sort.Strings(labels)

	log.Println()
	log.Printf("Organized %d frames into %s\n", total, st.LabeledDir())
	for _, label := range labels {
		log.Printf("  %-20s %d frames\n", label, stats[label])
	}
	log.Printf("Next: prepare_dataset -labeled %s -out <dir>\n", st.LabeledDir())
}

func countUnlabeled(meta *store.Metadata) int {
	count := 0
	for _, sc := range meta.Scenes {
		if sc.Label == "" && !meta.IsDeleted(sc.SceneID) {
			count++
		}
	}
	return count
}
