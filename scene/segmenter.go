package scene

import (
	"fmt"
	"image"

	"github.com/fedepasi/racetagger-training/models"
)

// Result is the segmenter's verdict for one pushed frame.
type Result struct {
	Frame    models.FrameInfo
	NewScene bool // true when this frame opened a scene (including scene 0)
}

// Segmenter groups sampled frames into scenes by comparing consecutive
// color-histogram signatures against a similarity threshold. It is streaming:
// frames are pushed one at a time and the final scene is flushed by Finish.
type Segmenter struct {
	threshold float64

	frames []models.FrameInfo
	scenes []models.SceneInfo

	prevSig Signature

	currentSceneID    int
	currentStartFrame int
	currentStartTs    float64
	currentCount      int
	lastFrameNumber   int
	lastTimestampMs   float64
	started           bool
}

// NewSegmenter creates a segmenter with the given cut threshold in [0,1].
func NewSegmenter(threshold float64) (*Segmenter, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("scene threshold must be in [0,1], got %f", threshold)
	}
	return &Segmenter{threshold: threshold}, nil
}

// Push consumes the next sampled frame in extraction order. It computes the
// frame's similarity to the previous one, cuts a new scene when similarity
// drops below the threshold, and returns the recorded frame. The first frame
// always opens scene 0 without any similarity comparison.
func (s *Segmenter) Push(frameNumber int, timestampMs float64, img image.Image) Result {
	sig := ComputeSignature(img)

	similarity := 1.0
	newScene := false

	if !s.started {
		s.started = true
		s.currentSceneID = 0
		s.currentStartFrame = frameNumber
		s.currentStartTs = timestampMs
		newScene = true
	} else {
		similarity = Similarity(s.prevSig, sig)
		if similarity < s.threshold {
			s.closeCurrentScene()
			s.currentSceneID++
			s.currentStartFrame = frameNumber
			s.currentStartTs = timestampMs
			s.currentCount = 0
			newScene = true
		}
	}

	frame := models.FrameInfo{
		Filename:         FrameFilename(len(s.frames), s.currentSceneID),
		FrameNumber:      frameNumber,
		TimestampMs:      timestampMs,
		SceneID:          s.currentSceneID,
		SimilarityToPrev: similarity,
	}

	s.frames = append(s.frames, frame)
	s.currentCount++
	s.lastFrameNumber = frameNumber
	s.lastTimestampMs = timestampMs
	s.prevSig = sig

	return Result{Frame: frame, NewScene: newScene}
}

// closeCurrentScene records the open scene using the last frame seen as its
// end bound.
func (s *Segmenter) closeCurrentScene() {
	s.scenes = append(s.scenes, models.SceneInfo{
		SceneID:             s.currentSceneID,
		StartFrame:          s.currentStartFrame,
		EndFrame:            s.lastFrameNumber,
		FrameCount:          s.currentCount,
		StartTimestampMs:    s.currentStartTs,
		EndTimestampMs:      s.lastTimestampMs,
		RepresentativeFrame: RepresentativeFilename(s.currentSceneID),
	})
}

// Finish flushes the currently open scene and returns every frame and scene
// recorded, in order. Calling Finish before any Push yields empty slices.
func (s *Segmenter) Finish() ([]models.FrameInfo, []models.SceneInfo) {
	if s.started && s.currentCount > 0 {
		s.closeCurrentScene()
		s.currentCount = 0
	}
	return s.frames, s.scenes
}

// SceneCount reports how many scenes exist so far, counting the open one.
func (s *Segmenter) SceneCount() int {
	if !s.started {
		return 0
	}
	return s.currentSceneID + 1
}

// FrameFilename is the stable on-disk name for the index-th extracted frame.
func FrameFilename(index, sceneID int) string {
	return fmt.Sprintf("frame_%06d_scene%04d.jpg", index, sceneID)
}

// RepresentativeFilename is the on-disk name of a scene's thumbnail frame.
func RepresentativeFilename(sceneID int) string {
	return fmt.Sprintf("scene_%04d_rep.jpg", sceneID)
}
