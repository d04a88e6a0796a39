// prepare_dataset deduplicates the labeled tree and splits it into
// train/val/test directories ready for classifier training.
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
	outDir := flag.String("out", "", "Output directory for the split dataset")
	seed := flag.Int64("seed", 42, "Shuffle seed")
	train := flag.Float64("train", dataset.DefaultRatios.Train, "Train ratio")
	val := flag.Float64("val", dataset.DefaultRatios.Val, "Validation ratio")
	test := flag.Float64("test", dataset.DefaultRatios.Test, "Test ratio")
	flag.Parse()

	if *labeledDir == "" || *outDir == "" {
		log.Fatal("Usage: prepare_dataset -labeled <dir> -out <dir> [-seed 42]")
	}
	if _, err := os.Stat(*labeledDir); err != nil {
		log.Fatalf("ERROR: labeled directory not found: %s", *labeledDir)
	}

	ratios := dataset.Ratios{Train: *train, Val: *val, Test: *test}
	log.Printf("Splitting %s -> %s (%.0f/%.0f/%.0f, seed %d)\n",
		*labeledDir, *outDir, ratios.Train*100, ratios.Val*100, ratios.Test*100, *seed)

	results, err := dataset.Split(*labeledDir, *outDir, ratios, *seed)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	labels := make([]string, 0, len(results))
	for label := range results {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	totalTrain, totalVal, totalTest, totalDupes := 0, 0, 0, 0
	for _, label := range labels {
		counts := results[label]
		log.Printf("  %-20s train=%d val=%d test=%d (dupes removed: %d)\n",
			label, counts.Train, counts.Val, counts.Test, counts.Duplicates)
		totalTrain += counts.Train
		totalVal += counts.Val
		totalTest += counts.Test
		totalDupes += counts.Duplicates
	}

	log.Println()
	log.Printf("Dataset ready: %d train, %d val, %d test (%d duplicates removed)\n",
		totalTrain, totalVal, totalTest, totalDupes)
	log.Printf("Output: %s\n", *outDir)
}
