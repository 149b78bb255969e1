// Package localstore persists the client's between-run state: the session
// token, UI preferences, unsubmitted claim drafts and the notification
// feed. Everything lives in one sqlite file under the user's data
// directory.
package localstore

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/pkg/database"
)

// Store is the on-disk client state. It is safe for concurrent use; the
// underlying handle serializes writers.
type Store struct {
	db     *database.DB
	logger *zap.Logger
}

// schema is the embedded migration set. New versions append; existing
// entries never change.
var schema = []database.Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQL: `
			CREATE TABLE IF NOT EXISTS session (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				token TEXT NOT NULL,
				saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS preferences (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS claim_drafts (
				id TEXT PRIMARY KEY,
				payload TEXT NOT NULL,
				saved_at DATETIME NOT NULL
			);
		`,
	},
	{
		Version: 2,
		Name:    "notification_feed",
		SQL: `
			CREATE TABLE IF NOT EXISTS notifications (
				id TEXT PRIMARY KEY,
				level TEXT NOT NULL,
				title TEXT NOT NULL,
				message TEXT NOT NULL DEFAULT '',
				resource TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			);
		`,
	},
}

// Open opens (or creates) the store at path and brings its schema up to
// date.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := database.New(database.Config{Path: path}, logger)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
