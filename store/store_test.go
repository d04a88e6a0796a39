package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fedepasi/racetagger-training/labels"
	"github.com/fedepasi/racetagger-training/models"
)

func testMetadata() *Metadata {
	return &Metadata{
		VideoPath:            "race.mp4",
		ExtractionDate:       "2026-08-01T10:00:00Z",
		VideoFPS:             30,
		ExtractionFPS:        2,
		TotalFramesExtracted: 2,
		TotalScenes:          1,
		SceneThreshold:       0.7,
		Frames: []models.FrameInfo{
			{Filename: "frame_000000_scene0000.jpg", FrameNumber: 0, SceneID: 0, SimilarityToPrev: 1},
			{Filename: "frame_000001_scene0000.jpg", FrameNumber: 15, TimestampMs: 500, SceneID: 0, SimilarityToPrev: 0.95},
		},
		Scenes: []models.SceneInfo{
			{SceneID: 0, StartFrame: 0, EndFrame: 15, FrameCount: 2, EndTimestampMs: 500,
				RepresentativeFrame: "scene_0000_rep.jpg"},
		},
		Config: labels.Config{
			ProjectName: "test",
			Labels:      map[string]string{"1": "CAR_RED"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	st := New(t.TempDir())
	meta := testMetadata()
	meta.MarkDeleted(0)
	meta.LastLabelingDate = "2026-08-02T12:00:00Z"

	if err := st.Save(meta); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if loaded.VideoPath != meta.VideoPath {
		t.Errorf("video path mismatch: %s", loaded.VideoPath)
	}
	if len(loaded.Frames) != 2 || len(loaded.Scenes) != 1 {
		t.Fatalf("frame/scene counts wrong after round trip: %d/%d", len(loaded.Frames), len(loaded.Scenes))
	}
	if !loaded.IsDeleted(0) {
		t.Error("deleted set lost in round trip")
	}
	if loaded.LastLabelingDate != meta.LastLabelingDate {
		t.Errorf("last labeling date mismatch: %s", loaded.LastLabelingDate)
	}
	if loaded.Config.Labels["1"] != "CAR_RED" {
		t.Errorf("embedded config lost in round trip: %v", loaded.Config.Labels)
	}
}

func TestLoadMissingMetadata(t *testing.T) {
	t.Parallel()

	st := New(t.TempDir())
	if _, err := st.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCorruptMetadata(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, MetadataFilename), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := New(dir).Load()
	if err == nil {
		t.Fatal("expected error for corrupt metadata")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("corrupt metadata must not report as missing")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := New(dir)
	if err := st.Save(testMetadata()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestEnsureLayout(t *testing.T) {
	t.Parallel()

	st := New(filepath.Join(t.TempDir(), "out"))
	if err := st.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout returned error: %v", err)
	}

	for _, dir := range []string{st.FramesDir(), st.ScenesDir(), st.LabeledDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", dir, err)
		}
	}
}

func TestMarkDeletedIdempotent(t *testing.T) {
	t.Parallel()

	meta := testMetadata()
	meta.MarkDeleted(0)
	meta.MarkDeleted(0)

	if len(meta.DeletedScenes) != 1 {
		t.Fatalf("tombstone set should deduplicate, got %v", meta.DeletedScenes)
	}
}

func TestSceneByID(t *testing.T) {
	t.Parallel()

	meta := testMetadata()
	if sc := meta.SceneByID(0); sc == nil || sc.SceneID != 0 {
		t.Fatal("SceneByID failed to find scene 0")
	}
	if sc := meta.SceneByID(99); sc != nil {
		t.Fatal("SceneByID should return nil for unknown id")
	}
}
