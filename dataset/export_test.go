package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExportFlattensWithLabelPrefix(t *testing.T) {
	t.Parallel()

	labeledDir := t.TempDir()
	for label, names := range map[string][]string{
		"CAR_RED":    {"f0.jpg", "f1.jpg"},
		"PIT_STOP":   {"f2.jpg"},
		UnlabeledDir: {"f3.jpg"},
	} {
		dir := filepath.Join(labeledDir, label)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
				t.Fatalf("failed to write fixture: %v", err)
			}
		}
	}

	exportDir := t.TempDir()
	total, stats, err := Export(labeledDir, exportDir)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 exported images, got %d", total)
	}
	if stats["CAR_RED"] != 2 || stats["PIT_STOP"] != 1 {
		t.Fatalf("unexpected per-label stats: %v", stats)
	}

	for _, name := range []string{"CAR_RED_f0.jpg", "CAR_RED_f1.jpg", "PIT_STOP_f2.jpg"} {
		if _, err := os.Stat(filepath.Join(exportDir, "images", name)); err != nil {
			t.Errorf("missing exported file %s: %v", name, err)
		}
	}

	classes, err := os.ReadFile(filepath.Join(exportDir, "classes.txt"))
	if err != nil {
		t.Fatalf("missing classes.txt: %v", err)
	}
	if string(classes) != "CAR_RED\nPIT_STOP\n" {
		t.Fatalf("classes.txt = %q, expected sorted labels without the unlabeled bucket", classes)
	}
}
