// export_dataset flattens the labeled tree for bbox-annotation tool upload:
// one images/ folder with label-prefixed filenames plus classes.txt.
package main

import (
	"flag"
	"log"
	"os"
	"sort"

	"github.com/fedepasi/racetagger-training/dataset"
)

func main() {
	labeledDir := flag.String("labeled", "", "Labeled image tree (output of organize_dataset)")
	exportDir := flag.String("out", "", "Export directory")
	flag.Parse()

	if *labeledDir == "" || *exportDir == "" {
		log.Fatal("Usage: export_dataset -labeled <dir> -out <dir>")
	}
	if _, err := os.Stat(*labeledDir); err != nil {
		log.Fatalf("ERROR: labeled directory not found: %s", *labeledDir)
	}

	total, stats, err := dataset.Export(*labeledDir, *exportDir)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	labels := make([]string, 0, len(stats))
	for label := range stats {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	log.Printf("Exported %d images to %s/images\n", total, *exportDir)
	for _, label := range labels {
		log.Printf("  %-20s %d\n", label, stats[label])
	}
	log.Printf("Class list: %s/classes.txt\n", *exportDir)
}
