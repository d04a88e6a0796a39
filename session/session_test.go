package session

import (
	"errors"
	"testing"

	"github.com/fedepasi/racetagger-training/labels"
	"github.com/fedepasi/racetagger-training/models"
	"github.com/fedepasi/racetagger-training/store"
)

func testMeta(sceneCount int) *store.Metadata {
	meta := &store.Metadata{
		Config: labels.Config{
			ProjectName: "test",
			Labels: map[string]string{
				"1": "CAR_RED",
				"2": "CAR_BLUE",
			},
			Shortcuts: map[string][]string{"c": {"1", "2"}},
		},
	}
	for i := 0; i < sceneCount; i++ {
		meta.Scenes = append(meta.Scenes, models.SceneInfo{SceneID: i, FrameCount: 2})
		meta.Frames = append(meta.Frames,
			models.FrameInfo{Filename: "a", FrameNumber: i * 2, SceneID: i},
			models.FrameInfo{Filename: "b", FrameNumber: i*2 + 1, SceneID: i},
		)
	}
	return meta
}

// countingSaver records every persist call so tests can assert the
// save-on-every-mutation contract.
type countingSaver struct {
	calls int
	last  *store.Metadata
	err   error
}

func (c *countingSaver) save(meta *store.Metadata) error {
	c.calls++
	c.last = meta
	return c.err
}

func TestNewPositionsAtFirstUnlabeled(t *testing.T) {
	t.Parallel()

	meta := testMeta(3)
	meta.Scenes[0].Label = "CAR_RED"
	meta.MarkDeleted(1)

	sess := New(meta, nil)
	current, ok := sess.Current()
	if !ok || current.SceneID != 2 {
		t.Fatalf("cursor should start at scene 2, got ok=%v scene=%+v", ok, current)
	}
}

func TestAssignLabelsPersistsAndAdvances(t *testing.T) {
	t.Parallel()

	meta := testMeta(3)
	saver := &countingSaver{}
	sess := New(meta, saver.save)

	label, err := sess.Assign("1")
	if err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if label != "CAR_RED" {
		t.Fatalf("expected CAR_RED, got %s", label)
	}
	if meta.Scenes[0].Label != "CAR_RED" {
		t.Fatalf("scene 0 label not applied: %q", meta.Scenes[0].Label)
	}
	if saver.calls != 1 {
		t.Fatalf("expected exactly one save, got %d", saver.calls)
	}
	if meta.LastLabelingDate == "" {
		t.Fatal("labeling date not stamped on mutation")
	}
	if current, _ := sess.Current(); current.SceneID != 1 {
		t.Fatalf("cursor should advance to scene 1, got %d", current.SceneID)
	}

	// The owning scene's frames carry the derived flag.
	for _, frame := range meta.Frames {
		if frame.SceneID == 0 && !frame.Labeled {
			t.Fatal("frames of a labeled scene must be marked labeled")
		}
		if frame.SceneID != 0 && frame.Labeled {
			t.Fatal("frames of unlabeled scenes must stay unmarked")
		}
	}
}

func TestAssignByCanonicalName(t *testing.T) {
	t.Parallel()

	sess := New(testMeta(1), nil)
	label, err := sess.Assign("car_blue")
	if err != nil {
		t.Fatalf("Assign by name returned error: %v", err)
	}
	if label != "CAR_BLUE" {
		t.Fatalf("expected canonical CAR_BLUE, got %s", label)
	}
}

func TestAssignUnknownKey(t *testing.T) {
	t.Parallel()

	sess := New(testMeta(1), nil)
	if _, err := sess.Assign("zz"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if current, ok := sess.Current(); !ok || current.Label != "" {
		t.Fatal("failed assign must not move the cursor or label the scene")
	}
}

func TestAssignCustomUppercases(t *testing.T) {
	t.Parallel()

	meta := testMeta(1)
	sess := New(meta, nil)
	if err := sess.AssignCustom("  safety car "); err != nil {
		t.Fatalf("AssignCustom returned error: %v", err)
	}
	if meta.Scenes[0].Label != "SAFETY CAR" {
		t.Fatalf("custom label not normalized: %q", meta.Scenes[0].Label)
	}
}

func TestAssignAtEndOfList(t *testing.T) {
	t.Parallel()

	meta := testMeta(1)
	meta.Scenes[0].Label = "CAR_RED"
	sess := New(meta, nil)

	if !sess.AtEnd() {
		t.Fatal("fully labeled list should start at end")
	}
	if _, err := sess.Assign("1"); !errors.Is(err, ErrEndOfList) {
		t.Fatalf("expected ErrEndOfList, got %v", err)
	}
	if err := sess.Delete(); !errors.Is(err, ErrEndOfList) {
		t.Fatalf("expected ErrEndOfList from Delete, got %v", err)
	}
}

func TestDeleteTombstonesAndAdvances(t *testing.T) {
	t.Parallel()

	meta := testMeta(2)
	saver := &countingSaver{}
	sess := New(meta, saver.save)

	if err := sess.Delete(); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !meta.IsDeleted(0) {
		t.Fatal("scene 0 should carry a tombstone")
	}
	if meta.Scenes[0].Label != "" {
		t.Fatal("deletion must not assign a label")
	}
	if len(meta.Frames) != 4 {
		t.Fatal("deletion must not remove frames")
	}
	if saver.calls != 1 {
		t.Fatalf("delete must persist once, got %d saves", saver.calls)
	}
	if current, _ := sess.Current(); current.SceneID != 1 {
		t.Fatalf("cursor should advance past the tombstone, got scene %d", current.SceneID)
	}
}

func TestDeleteOnlyScene(t *testing.T) {
	t.Parallel()

	meta := testMeta(1)
	sess := New(meta, nil)

	if err := sess.Delete(); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !sess.AtEnd() {
		t.Fatal("deleting the only scene should leave the cursor at end-of-list")
	}
	if !sess.Complete() {
		t.Fatal("a fully tombstoned list counts as complete")
	}
}

func TestSkipAdvancesWithoutPersist(t *testing.T) {
	t.Parallel()

	meta := testMeta(2)
	saver := &countingSaver{}
	sess := New(meta, saver.save)

	sess.Skip()
	if saver.calls != 0 {
		t.Fatalf("skip must not persist, got %d saves", saver.calls)
	}
	if current, _ := sess.Current(); current.SceneID != 1 {
		t.Fatalf("skip should move to next scene in list order, got %d", current.SceneID)
	}
	if sess.Remaining() != 2 {
		t.Fatalf("skipped scene stays unlabeled, remaining=%d", sess.Remaining())
	}

	sess.Skip()
	if !sess.AtEnd() {
		t.Fatal("skipping past the last scene should reach end-of-list")
	}
	sess.Skip() // no-op at end
	if sess.Cursor() != len(meta.Scenes) {
		t.Fatalf("skip at end must stay at end, cursor=%d", sess.Cursor())
	}
}

func TestAssignSkipsLabeledAndDeleted(t *testing.T) {
	t.Parallel()

	meta := testMeta(4)
	meta.Scenes[1].Label = "CAR_BLUE"
	meta.MarkDeleted(2)
	sess := New(meta, nil)

	if _, err := sess.Assign("1"); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	if current, _ := sess.Current(); current.SceneID != 3 {
		t.Fatalf("cursor should land on scene 3, got %d", current.SceneID)
	}
}

func TestNavigationClamps(t *testing.T) {
	t.Parallel()

	meta := testMeta(2)
	sess := New(meta, nil)

	sess.Prev()
	if sess.Cursor() != 0 {
		t.Fatalf("prev at start must clamp to 0, got %d", sess.Cursor())
	}

	sess.Next()
	sess.Next()
	sess.Next()
	if sess.Cursor() != 2 {
		t.Fatalf("next past end must clamp to len(scenes), got %d", sess.Cursor())
	}

	sess.Seek(-5)
	if sess.Cursor() != 0 {
		t.Fatalf("seek below range must clamp to 0, got %d", sess.Cursor())
	}
	sess.Seek(99)
	if sess.Cursor() != 2 {
		t.Fatalf("seek above range must clamp to end, got %d", sess.Cursor())
	}
}

func TestNavigationReachesLabeledScenes(t *testing.T) {
	t.Parallel()

	meta := testMeta(2)
	meta.Scenes[0].Label = "CAR_RED"
	sess := New(meta, nil)

	// Cursor starts on scene 1; Prev must reach the already-labeled scene 0
	// for review.
	sess.Prev()
	current, ok := sess.Current()
	if !ok || current.SceneID != 0 {
		t.Fatalf("prev should reach labeled scenes, got ok=%v scene=%d", ok, current.SceneID)
	}

	// Relabeling during review is allowed.
	if _, err := sess.Assign("2"); err != nil {
		t.Fatalf("relabel returned error: %v", err)
	}
	if meta.Scenes[0].Label != "CAR_BLUE" {
		t.Fatalf("relabel not applied: %q", meta.Scenes[0].Label)
	}
}

func TestSaveFailureSurfaces(t *testing.T) {
	t.Parallel()

	saver := &countingSaver{err: errors.New("disk full")}
	sess := New(testMeta(1), saver.save)

	if _, err := sess.Assign("1"); err == nil {
		t.Fatal("a failing saver must surface through Assign")
	}
}

func TestCloseAlwaysPersists(t *testing.T) {
	t.Parallel()

	saver := &countingSaver{}
	sess := New(testMeta(1), saver.save)

	if err := sess.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if saver.calls != 1 {
		t.Fatalf("Close must persist, got %d saves", saver.calls)
	}
}
