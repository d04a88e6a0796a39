package db

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fedepasi/racetagger-training/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens (and if needed creates) the ledger database file.
func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000"
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

func createTables(db *sql.DB) error {
	createDownloadsTable := `
    CREATE TABLE IF NOT EXISTS downloads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source TEXT NOT NULL,
        photo_id TEXT NOT NULL,
        category TEXT NOT NULL,
        path TEXT,
        downloaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (source, photo_id)
    );
    CREATE INDEX IF NOT EXISTS idx_downloads_category ON downloads(category);
    `

	if _, err := db.Exec(createDownloadsTable); err != nil {
		return fmt.Errorf("error creating downloads table: %s", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// MarkDownloaded records a download; re-marking the same photo is a no-op.
func (c *SQLiteClient) MarkDownloaded(dl Download) error {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO downloads (source, photo_id, category, path) VALUES (?, ?, ?, ?)",
		dl.Source, dl.PhotoID, dl.Category, dl.Path,
	)
	if err != nil {
		return fmt.Errorf("error storing download: %s", err)
	}
	return nil
}

func (c *SQLiteClient) IsDownloaded(source, photoID string) (bool, error) {
	var count int
	err := c.db.QueryRow(
		"SELECT COUNT(*) FROM downloads WHERE source = ? AND photo_id = ?",
		source, photoID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("error querying download: %s", err)
	}
	return count > 0, nil
}

func (c *SQLiteClient) TotalDownloaded() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM downloads").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting downloads: %s", err)
	}
	return count, nil
}
