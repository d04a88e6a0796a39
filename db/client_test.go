package db

import (
	"os"
	"path/filepath"
	"testing"
)

// A failed open must return a nil interface value. A caller that warns and
// continues without a ledger checks `ledger != nil`; an interface wrapping a
// nil concrete pointer would pass that check and crash on first use.
func TestNewDBClientErrorReturnsNilInterface(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-directory")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	// The ledger path's parent is a regular file, so the sqlite open fails.
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(blocker, "downloads.db"))

	client, err := NewDBClient()
	if err == nil {
		if client != nil {
			client.Close()
		}
		t.Fatal("expected error opening ledger under a regular file")
	}
	if client != nil {
		t.Fatalf("failed open must return a nil Client, got %T", client)
	}
}

func TestNewDBClientUnsupportedType(t *testing.T) {
	t.Setenv("DB_TYPE", "cassandra")

	client, err := NewDBClient()
	if err == nil {
		t.Fatal("expected error for unsupported DB_TYPE")
	}
	if client != nil {
		t.Fatalf("failed selection must return a nil Client, got %T", client)
	}
}

func TestSQLiteLedgerRoundTrip(t *testing.T) {
	t.Parallel()

	client, err := NewSQLiteClient(filepath.Join(t.TempDir(), "downloads.db"))
	if err != nil {
		t.Fatalf("NewSQLiteClient returned error: %v", err)
	}
	defer client.Close()

	dl := Download{Source: "unsplash", PhotoID: "abc123", Category: "pit_stop", Path: "/tmp/a.jpg"}

	found, err := client.IsDownloaded(dl.Source, dl.PhotoID)
	if err != nil {
		t.Fatalf("IsDownloaded returned error: %v", err)
	}
	if found {
		t.Fatal("fresh ledger should not contain the photo")
	}

	if err := client.MarkDownloaded(dl); err != nil {
		t.Fatalf("MarkDownloaded returned error: %v", err)
	}
	// Re-marking the same photo is a no-op, not an error.
	if err := client.MarkDownloaded(dl); err != nil {
		t.Fatalf("re-marking returned error: %v", err)
	}

	found, err = client.IsDownloaded(dl.Source, dl.PhotoID)
	if err != nil {
		t.Fatalf("IsDownloaded returned error: %v", err)
	}
	if !found {
		t.Fatal("marked photo not found in ledger")
	}

	total, err := client.TotalDownloaded()
	if err != nil {
		t.Fatalf("TotalDownloaded returned error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", total)
	}
}
