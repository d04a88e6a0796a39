package inference

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fedepasi/racetagger-training/models"
)

func TestSelectLargest(t *testing.T) {
	t.Parallel()

	detections := []models.Detection{
		{Label: "car", Confidence: 0.9, Box: [4]float64{0, 0, 10, 10}},
		{Label: "car", Confidence: 0.5, Box: [4]float64{0, 0, 100, 50}},
		{Label: "car", Confidence: 0.8, Box: [4]float64{0, 0, 20, 20}},
	}

	best, ok := SelectLargest(detections)
	if !ok {
		t.Fatal("expected a selection")
	}
	if best.Box != detections[1].Box {
		t.Fatalf("largest box should win regardless of confidence, got %v", best.Box)
	}
}

func TestSelectLargestEmpty(t *testing.T) {
	t.Parallel()

	if _, ok := SelectLargest(nil); ok {
		t.Fatal("no detections should select nothing")
	}
	// Degenerate zero-area boxes count as no detection.
	if _, ok := SelectLargest([]models.Detection{{Box: [4]float64{5, 5, 5, 5}}}); ok {
		t.Fatal("zero-area box should select nothing")
	}
}

func TestToYOLO(t *testing.T) {
	t.Parallel()

	box, err := ToYOLO([4]float64{100, 50, 300, 250}, 400, 400)
	if err != nil {
		t.Fatalf("ToYOLO returned error: %v", err)
	}

	want := YOLOBox{XCenter: 0.5, YCenter: 0.375, Width: 0.5, Height: 0.5}
	for name, pair := range map[string][2]float64{
		"x_center": {box.XCenter, want.XCenter},
		"y_center": {box.YCenter, want.YCenter},
		"width":    {box.Width, want.Width},
		"height":   {box.Height, want.Height},
	} {
		if math.Abs(pair[0]-pair[1]) > 1e-9 {
			t.Errorf("%s = %f, expected %f", name, pair[0], pair[1])
		}
	}
}

func TestToYOLOClampsOutOfFrame(t *testing.T) {
	t.Parallel()

	box, err := ToYOLO([4]float64{-50, -50, 500, 500}, 400, 400)
	if err != nil {
		t.Fatalf("ToYOLO returned error: %v", err)
	}
	for _, v := range []float64{box.XCenter, box.YCenter, box.Width, box.Height} {
		if v < 0 || v > 1 {
			t.Fatalf("coordinate out of [0,1]: %+v", box)
		}
	}
}

func TestToYOLOInvalidDimensions(t *testing.T) {
	t.Parallel()

	if _, err := ToYOLO([4]float64{0, 0, 10, 10}, 0, 100); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestWriteAnnotationFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "frame.txt")
	box := YOLOBox{XCenter: 0.5, YCenter: 0.375, Width: 0.5, Height: 0.25}
	if err := WriteAnnotation(path, 3, box); err != nil {
		t.Fatalf("WriteAnnotation returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read annotation: %v", err)
	}
	got := string(data)
	want := "3 0.500000 0.375000 0.500000 0.250000\n"
	if got != want {
		t.Fatalf("annotation line = %q, expected %q", got, want)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatal("annotation must end with newline")
	}
}

func TestLabelClassIDs(t *testing.T) {
	t.Parallel()

	ids := LabelClassIDs(map[string]string{
		"1": "CAR_RED",
		"2": "PIT_STOP",
		"x": "NOT_NUMERIC",
	})

	if ids["CAR_RED"] != 1 || ids["PIT_STOP"] != 2 {
		t.Fatalf("unexpected class ids: %v", ids)
	}
	if _, ok := ids["NOT_NUMERIC"]; ok {
		t.Fatal("non-numeric keys must be excluded")
	}
}
