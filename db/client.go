// Package db tracks which stock-photo downloads have already happened, so a
// re-run of the collector never fetches the same photo twice. Two backends
// share one interface: a local SQLite file (default) and MongoDB for shared
// collection runs.
package db

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Download is one ledger entry.
type Download struct {
	Source   string `bson:"source" json:"source"`
	PhotoID  string `bson:"photo_id" json:"photo_id"`
	Category string `bson:"category" json:"category"`
	Path     string `bson:"path" json:"path"`
}

// Client is the download ledger contract.
type Client interface {
	Close() error
	MarkDownloaded(dl Download) error
	IsDownloaded(source, photoID string) (bool, error)
	TotalDownloaded() (int, error)
}

type config struct {
	Type       string `env:"DB_TYPE" envDefault:"sqlite"`
	SQLitePath string `env:"SQLITE_DB_PATH" envDefault:"db/downloads.db"`
	MongoURI   string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB    string `env:"MONGO_DATABASE" envDefault:"racetagger"`
}

// NewDBClient builds the ledger selected by DB_TYPE (sqlite or mongo).
func NewDBClient() (Client, error) {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing db config: %v", err)
	}

	// Unpack the concrete constructors so a failed open yields a nil
	// interface, not an interface wrapping a nil pointer.
	switch cfg.Type {
	case "sqlite", "":
		client, err := NewSQLiteClient(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "mongo":
		client, err := NewMongoClient(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", cfg.Type)
	}
}
