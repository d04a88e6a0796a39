package models

// FrameInfo describes one sampled instant of source video. Records are
// created during extraction and immutable afterwards except for the derived
// Labeled flag; the authoritative label lives on the owning scene.
type FrameInfo struct {
	Filename         string  `json:"filename"`
	FrameNumber      int     `json:"frame_number"`
	TimestampMs      float64 `json:"timestamp_ms"`
	SceneID          int     `json:"scene_id"`
	SimilarityToPrev float64 `json:"similarity_to_prev"`
	Labeled          bool    `json:"labeled"`
}

// SceneInfo describes a maximal run of consecutive frames whose pairwise
// similarity stayed at or above the extraction threshold.
type SceneInfo struct {
	SceneID             int     `json:"scene_id"`
	StartFrame          int     `json:"start_frame"`
	EndFrame            int     `json:"end_frame"`
	FrameCount          int     `json:"frame_count"`
	StartTimestampMs    float64 `json:"start_timestamp_ms"`
	EndTimestampMs      float64 `json:"end_timestamp_ms"`
	Label               string  `json:"label"`
	RepresentativeFrame string  `json:"representative_frame"`
}

// DurationSec returns the wall-clock span covered by the scene.
func (s SceneInfo) DurationSec() float64 {
	return (s.EndTimestampMs - s.StartTimestampMs) / 1000
}

// Detection is one candidate box returned by the detector sidecar.
// Box coordinates are pixel [xmin, ymin, xmax, ymax] in the source image.
type Detection struct {
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"box"`
}

// Area returns the pixel area of the detection box.
func (d Detection) Area() float64 {
	width := d.Box[2] - d.Box[0]
	height := d.Box[3] - d.Box[1]
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height
}
