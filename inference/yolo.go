package inference

import (
	"fmt"
	"os"

	"github.com/fedepasi/racetagger-training/models"
)

// YOLOBox is a normalized center/size bounding box in [0,1] coordinates.
type YOLOBox struct {
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// SelectLargest picks the single biggest-area detection. The labeling
// workflow emits exactly one box per frame: largest box wins, on the theory
// that the main subject is the closest (largest) one.
func SelectLargest(detections []models.Detection) (models.Detection, bool) {
	best := -1
	bestArea := 0.0
	for i, det := range detections {
		area := det.Area()
		if area > bestArea {
			best = i
			bestArea = area
		}
	}
	if best < 0 {
		return models.Detection{}, false
	}
	return detections[best], true
}

// ToYOLO converts a pixel [xmin, ymin, xmax, ymax] box to normalized YOLO
// center/size form, clamped to [0,1].
func ToYOLO(box [4]float64, imgWidth, imgHeight int) (YOLOBox, error) {
	if imgWidth <= 0 || imgHeight <= 0 {
		return YOLOBox{}, fmt.Errorf("invalid image dimensions %dx%d", imgWidth, imgHeight)
	}

	boxWidth := box[2] - box[0]
	boxHeight := box[3] - box[1]

	yolo := YOLOBox{
		XCenter: clamp01((box[0] + boxWidth/2) / float64(imgWidth)),
		YCenter: clamp01((box[1] + boxHeight/2) / float64(imgHeight)),
		Width:   clamp01(boxWidth / float64(imgWidth)),
		Height:  clamp01(boxHeight / float64(imgHeight)),
	}
	return yolo, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WriteAnnotation writes the single-line YOLO annotation file for one frame:
// "class_id x_center y_center width height", all normalized.
func WriteAnnotation(path string, classID int, box YOLOBox) error {
	line := fmt.Sprintf("%d %.6f %.6f %.6f %.6f\n",
		classID, box.XCenter, box.YCenter, box.Width, box.Height)
	if err := os.WriteFile(path, []byte(line), 0644); err != nil {
		return fmt.Errorf("error writing annotation file: %v", err)
	}
	return nil
}

// LabelClassIDs inverts the label-config mapping: config keys are the class
// ids, config values the canonical labels the scenes carry.
func LabelClassIDs(labels map[string]string) map[string]int {
	ids := make(map[string]int, len(labels))
	for key, label := range labels {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err == nil {
			ids[label] = id
		}
	}
	return ids
}
