// extract_frames samples a video at a fixed rate, groups the sampled frames
// into scenes by histogram similarity, and writes the frames plus the
// metadata document every labeling front-end works from.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fedepasi/racetagger-training/labels"
	"github.com/fedepasi/racetagger-training/scene"
	"github.com/fedepasi/racetagger-training/store"
	"github.com/fedepasi/racetagger-training/video"
)

const jpegQuality = 95

func main() {
	videoPath := flag.String("video", "", "Input video path")
	outputDir := flag.String("output", "", "Output directory")
	fps := flag.Float64("fps", 2.0, "Frames per second to sample")
	maxFrames := flag.Int("max-frames", 0, "Maximum frames to extract (0 = all)")
	startSec := flag.Float64("start", 0, "Start time in seconds")
	endSec := flag.Float64("end", 0, "End time in seconds (0 = end of stream)")
	threshold := flag.Float64("threshold", 0.7, "Scene cut similarity threshold in [0,1]")
	configPath := flag.String("config", "configs/labels_config.json", "Label configuration file")
	flag.Parse()

	if *videoPath == "" || *outputDir == "" {
		log.Fatal("Usage: extract_frames -video <file> -output <dir> [-fps 2] [-threshold 0.7]")
	}

	if err := video.CheckFFmpegAvailable(); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	if _, err := os.Stat(*videoPath); err != nil {
		log.Fatalf("ERROR: video not found: %s", *videoPath)
	}

	cfg, err := labels.Load(*configPath)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	log.Printf("Label config: %s (%d labels)\n", cfg.ProjectName, len(cfg.Labels))

	info, err := video.Probe(*videoPath)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	log.Printf("Video: %s\n", *videoPath)
	log.Printf("  %dx%d @ %.2f fps, %d frames, %.2fs\n",
		info.Width, info.Height, info.FPS, info.TotalFrames, info.DurationSec)

	st := store.New(*outputDir)
	if err := st.EnsureLayout(); err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	seg, err := scene.NewSegmenter(*threshold)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	sampler, err := video.NewSampler(info, video.SamplerOptions{
		TargetFPS: *fps,
		MaxFrames: *maxFrames,
		StartSec:  *startSec,
		EndSec:    *endSec,
	})
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	defer sampler.Close()

	log.Printf("Sampling 1 every %d native frames (~%.1f fps)...\n", sampler.Interval(), *fps)

	extracted := 0
	for {
		sample, err := sampler.Next()
		if err == io.EOF {
			break
		}

		res := seg.Push(sample.FrameNumber, sample.TimestampMs, sample.Image)

		framePath := filepath.Join(st.FramesDir(), res.Frame.Filename)
		if err := writeJPEG(framePath, sample.Image); err != nil {
			log.Printf("WARNING: could not save %s: %v\n", res.Frame.Filename, err)
		}

		// The representative frame is captured at cut time; it is never
		// re-derived later.
		if res.NewScene {
			repPath := filepath.Join(st.ScenesDir(), scene.RepresentativeFilename(res.Frame.SceneID))
			if err := writeJPEG(repPath, sample.Image); err != nil {
				log.Printf("WARNING: could not save representative frame: %v\n", err)
			}
			if res.Frame.SceneID > 0 {
				log.Printf("  New scene %d at frame %d (similarity %.2f)\n",
					res.Frame.SceneID, sample.FrameNumber, res.Frame.SimilarityToPrev)
			}
		}

		extracted++
		if extracted%50 == 0 {
			log.Printf("  Extracted %d frames, %d scenes...\n", extracted, seg.SceneCount())
		}
	}

	frames, scenes := seg.Finish()
	if len(frames) == 0 {
		log.Fatalf("ERROR: no frames extracted from %s", *videoPath)
	}

	meta := &store.Metadata{
		VideoPath:            *videoPath,
		ExtractionDate:       time.Now().Format(time.RFC3339),
		VideoFPS:             info.FPS,
		ExtractionFPS:        *fps,
		TotalFramesExtracted: len(frames),
		TotalScenes:          len(scenes),
		SceneThreshold:       *threshold,
		Frames:               frames,
		Scenes:               scenes,
		Config:               cfg,
	}
	if err := st.Save(meta); err != nil {
		log.Fatalf("ERROR: failed to save metadata: %v", err)
	}

	log.Println()
	log.Printf("Extraction complete: %d frames, %d scenes\n", len(frames), len(scenes))
	log.Printf("Output: %s\n", *outputDir)
	log.Printf("Next: label_cli -input %s\n", *outputDir)
}

func writeJPEG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("jpeg encode: %w", err)
	}
	return file.Close()
}
