// Package session implements the labeling cursor shared by every front-end.
// The CLI prompt loop and the web handlers are thin adapters over the same
// command set, so identical command sequences persist identical results.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fedepasi/racetagger-training/models"
	"github.com/fedepasi/racetagger-training/store"
)

var (
	// ErrEndOfList is returned by mutating commands once no scene is under
	// the cursor.
	ErrEndOfList = errors.New("no scene under cursor")

	// ErrUnknownKey is returned when an input key resolves to no label.
	ErrUnknownKey = errors.New("unrecognized label key")
)

// Saver persists the session metadata. It is called after every label or
// delete mutation and on Close, never in between.
type Saver func(*store.Metadata) error

// Session is a stateful cursor over the scene list. The cursor either points
// at a scene (by index) or sits at end-of-list; mutating commands advance it
// to the next scene that is unlabeled and not tombstoned.
type Session struct {
	meta   *store.Metadata
	save   Saver
	cursor int
}

// New positions the cursor at the first scene that is unlabeled and not
// deleted, or at end-of-list when none exists.
func New(meta *store.Metadata, save Saver) *Session {
	s := &Session{meta: meta, save: save}
	s.cursor = s.scanForward(0)
	return s
}

// scanForward returns the lowest index >= from whose scene satisfies the
// "unlabeled and not deleted" predicate, or len(scenes) when none does.
func (s *Session) scanForward(from int) int {
	for i := from; i < len(s.meta.Scenes); i++ {
		sc := s.meta.Scenes[i]
		if sc.Label == "" && !s.meta.IsDeleted(sc.SceneID) {
			return i
		}
	}
	return len(s.meta.Scenes)
}

// AtEnd reports whether the cursor sits past the last scene.
func (s *Session) AtEnd() bool {
	return s.cursor >= len(s.meta.Scenes)
}

// Current returns the scene under the cursor.
func (s *Session) Current() (models.SceneInfo, bool) {
	if s.AtEnd() {
		return models.SceneInfo{}, false
	}
	return s.meta.Scenes[s.cursor], true
}

// Cursor exposes the current list position; len(scenes) means end-of-list.
func (s *Session) Cursor() int { return s.cursor }

// Metadata exposes the underlying document for read-only display.
func (s *Session) Metadata() *store.Metadata { return s.meta }

// Assign resolves key against the embedded label configuration (direct key
// first, then canonical name match) and applies the label to the scene under
// the cursor. It persists and advances past the mutation.
func (s *Session) Assign(key string) (string, error) {
	label, ok := s.meta.Config.Lookup(key)
	if !ok {
		label, ok = s.meta.Config.MatchName(key)
	}
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := s.applyLabel(label); err != nil {
		return "", err
	}
	return label, nil
}

// AssignCustom applies a free-text label, uppercased, to the scene under the
// cursor.
func (s *Session) AssignCustom(label string) error {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return fmt.Errorf("%w: empty custom label", ErrUnknownKey)
	}
	return s.applyLabel(label)
}

func (s *Session) applyLabel(label string) error {
	if s.AtEnd() {
		return ErrEndOfList
	}
	sc := &s.meta.Scenes[s.cursor]
	sc.Label = label
	s.markFramesLabeled(sc.SceneID)
	if err := s.persist(); err != nil {
		return err
	}
	s.cursor = s.scanForward(s.cursor + 1)
	return nil
}

// markFramesLabeled maintains the derived per-frame flag; the scene label
// stays authoritative.
func (s *Session) markFramesLabeled(sceneID int) {
	for i := range s.meta.Frames {
		if s.meta.Frames[i].SceneID == sceneID {
			s.meta.Frames[i].Labeled = true
		}
	}
}

// Delete tombstones the scene under the cursor. Its frames stay in the frame
// list and its label stays empty; only the deleted set grows. Persists and
// advances like Assign.
func (s *Session) Delete() error {
	if s.AtEnd() {
		return ErrEndOfList
	}
	s.meta.MarkDeleted(s.meta.Scenes[s.cursor].SceneID)
	if err := s.persist(); err != nil {
		return err
	}
	s.cursor = s.scanForward(s.cursor + 1)
	return nil
}

// Skip advances to the next scene in list order without assigning a label;
// the skipped scene remains unlabeled and will be revisited.
func (s *Session) Skip() {
	if !s.AtEnd() {
		s.cursor++
	}
}

// Next moves the display cursor one position forward without consulting the
// unlabeled predicate. Used for manual review; mutates no label state.
func (s *Session) Next() {
	if s.cursor < len(s.meta.Scenes) {
		s.cursor++
	}
}

// Prev moves the display cursor one position back.
func (s *Session) Prev() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Seek places the cursor on an arbitrary list position, clamped to the valid
// range. End-of-list is a valid target.
func (s *Session) Seek(index int) {
	if index < 0 {
		index = 0
	}
	if index > len(s.meta.Scenes) {
		index = len(s.meta.Scenes)
	}
	s.cursor = index
}

// Remaining counts scenes still satisfying the unlabeled-and-not-deleted
// predicate anywhere in the list.
func (s *Session) Remaining() int {
	count := 0
	for _, sc := range s.meta.Scenes {
		if sc.Label == "" && !s.meta.IsDeleted(sc.SceneID) {
			count++
		}
	}
	return count
}

// Complete reports whether every scene is labeled or tombstoned. The session
// does not auto-terminate on completion; manual review remains valid.
func (s *Session) Complete() bool {
	return s.Remaining() == 0
}

func (s *Session) persist() error {
	s.meta.TouchLabelingDate()
	if s.save == nil {
		return nil
	}
	return s.save(s.meta)
}

// Close persists unconditionally; front-ends call it on exit.
func (s *Session) Close() error {
	return s.persist()
}
