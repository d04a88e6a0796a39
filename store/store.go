package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fedepasi/racetagger-training/labels"
	"github.com/fedepasi/racetagger-training/models"
	"github.com/fedepasi/racetagger-training/utils"
)

// ErrNotFound is returned by Load when the metadata file does not exist.
// Every labeling front-end treats it as "run extract first".
var ErrNotFound = errors.New("metadata file not found")

const (
	MetadataFilename = "metadata.json"
	FramesDirname    = "frames"
	ScenesDirname    = "scenes"
	LabeledDirname   = "labeled"
)

// Metadata is the single unit of persistence for an extraction run: frames,
// scenes, tombstoned scene ids and the embedded label configuration. Every
// mutation during labeling rewrites the whole structure.
type Metadata struct {
	VideoPath            string             `json:"video_path"`
	ExtractionDate       string             `json:"extraction_date"`
	VideoFPS             float64            `json:"video_fps"`
	ExtractionFPS        float64            `json:"extraction_fps"`
	TotalFramesExtracted int                `json:"total_frames_extracted"`
	TotalScenes          int                `json:"total_scenes"`
	SceneThreshold       float64            `json:"scene_threshold"`
	Frames               []models.FrameInfo `json:"frames"`
	Scenes               []models.SceneInfo `json:"scenes"`
	Config               labels.Config      `json:"config"`
	DeletedScenes        []int              `json:"deleted_scenes,omitempty"`
	LastLabelingDate     string             `json:"last_labeling_date,omitempty"`
}

// IsDeleted reports whether the scene id carries a tombstone.
func (m *Metadata) IsDeleted(sceneID int) bool {
	for _, id := range m.DeletedScenes {
		if id == sceneID {
			return true
		}
	}
	return false
}

// MarkDeleted adds a tombstone for the scene id. Frames are never removed;
// deletion is membership in the deleted set only.
func (m *Metadata) MarkDeleted(sceneID int) {
	if m.IsDeleted(sceneID) {
		return
	}
	m.DeletedScenes = append(m.DeletedScenes, sceneID)
}

// SceneByID returns a pointer into the Scenes slice, or nil.
func (m *Metadata) SceneByID(sceneID int) *models.SceneInfo {
	for i := range m.Scenes {
		if m.Scenes[i].SceneID == sceneID {
			return &m.Scenes[i]
		}
	}
	return nil
}

// TouchLabelingDate stamps the last-labeling timestamp with the current time.
func (m *Metadata) TouchLabelingDate() {
	m.LastLabelingDate = time.Now().Format(time.RFC3339)
}

// Store binds a Metadata document to its output directory layout.
type Store struct {
	Dir string
}

// New returns a store rooted at the extraction output directory.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) MetadataPath() string { return filepath.Join(s.Dir, MetadataFilename) }
func (s *Store) FramesDir() string    { return filepath.Join(s.Dir, FramesDirname) }
func (s *Store) ScenesDir() string    { return filepath.Join(s.Dir, ScenesDirname) }
func (s *Store) LabeledDir() string   { return filepath.Join(s.Dir, LabeledDirname) }

// EnsureLayout creates the frames/scenes/labeled folders.
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{s.FramesDir(), s.ScenesDir(), s.LabeledDir()} {
		if err := utils.CreateFolder(dir); err != nil {
			return fmt.Errorf("error creating directory %s: %s", dir, err)
		}
	}
	return nil
}

// Load reads the metadata document. It returns ErrNotFound when no extraction
// has produced one yet; an unparsable document is fatal for the session.
func (s *Store) Load() (*Metadata, error) {
	path := s.MetadataPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("error reading metadata file: %v", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("error unmarshaling metadata: %v", err)
	}
	return &meta, nil
}

// Save rewrites the metadata document wholesale. It writes to a temp file in
// the same directory and renames it into place so a crash mid-write cannot
// truncate the previous document.
func (s *Store) Save(meta *Metadata) error {
	if err := utils.CreateFolder(s.Dir); err != nil {
		return fmt.Errorf("error creating directory: %v", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling metadata: %v", err)
	}

	path := s.MetadataPath()
	tmp, err := os.CreateTemp(s.Dir, MetadataFilename+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp metadata file: %v", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing metadata file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing metadata file: %v", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing metadata file: %v", err)
	}
	return nil
}
