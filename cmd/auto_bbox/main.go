// auto_bbox runs the detection sidecar over a labeled image tree and writes
// one YOLO annotation per image, picking the largest detected box.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/fedepasi/racetagger-training/inference"
	"github.com/fedepasi/racetagger-training/labels"
	"github.com/fedepasi/racetagger-training/utils"
)

func main() {
	godotenv.Load()

	labeledDir := flag.String("labeled", "", "Labeled image tree (output of organize_dataset)")
	outDir := flag.String("out", "annotations", "Annotation output directory")
	configPath := flag.String("config", "configs/labels_config.json", "Label configuration file")
	confidence := flag.Float64("confidence", 0.4, "Minimum detection confidence")
	serviceURL := flag.String("service", utils.GetEnv("DETECTOR_SERVICE_URL", ""), "Detector service URL")
	flag.Parse()

	if *labeledDir == "" {
		log.Fatal("Usage: auto_bbox -labeled <dir> [-out annotations] [-confidence 0.4]")
	}

	cfg, err := labels.Load(*configPath)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	classIDs := inference.LabelClassIDs(cfg.Labels)

	detector := inference.NewDetectorClient(*serviceURL)
	if err := detector.HealthCheck(); err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	entries, err := os.ReadDir(*labeledDir)
	if err != nil {
		log.Fatalf("ERROR: reading labeled directory: %v", err)
	}

	type job struct {
		path    string
		classID int
	}
	var jobs []job
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label := entry.Name()
		classID, known := classIDs[label]
		if !known {
			log.Printf("WARNING: label %s has no numeric class id, skipping\n", label)
			continue
		}

		labelDir := filepath.Join(*labeledDir, label)
		files, err := os.ReadDir(labelDir)
		if err != nil {
			log.Fatalf("ERROR: reading %s: %v", labelDir, err)
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(file.Name()))
			if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
				continue
			}
			jobs = append(jobs, job{path: filepath.Join(labelDir, file.Name()), classID: classID})
		}
	}

	if len(jobs) == 0 {
		log.Fatalf("ERROR: no labeled images found under %s", *labeledDir)
	}
	if err := utils.CreateFolder(*outDir); err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	bar := progressbar.Default(int64(len(jobs)), "annotating")
	annotated, empty, failed := 0, 0, 0

	for _, j := range jobs {
		bar.Add(1)

		result, err := detector.DetectFile(j.path, *confidence)
		if err != nil {
			log.Printf("WARNING: detection failed for %s: %v\n", filepath.Base(j.path), err)
			failed++
			continue
		}

		best, found := inference.SelectLargest(result.Detections)
		if !found {
			empty++
			continue
		}

		box, err := inference.ToYOLO(best.Box, result.Width, result.Height)
		if err != nil {
			log.Printf("WARNING: %s: %v\n", filepath.Base(j.path), err)
			failed++
			continue
		}

		name := strings.TrimSuffix(filepath.Base(j.path), filepath.Ext(j.path)) + ".txt"
		if err := inference.WriteAnnotation(filepath.Join(*outDir, name), j.classID, box); err != nil {
			log.Printf("WARNING: %v\n", err)
			failed++
			continue
		}
		annotated++
	}

	log.Println()
	log.Printf("Annotated %d/%d images (%d without detections, %d failed)\n",
		annotated, len(jobs), empty, failed)
	log.Printf("Annotations: %s\n", *outDir)
}
