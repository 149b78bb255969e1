package localstore

import (
	"database/sql"
	"fmt"

	"github.com/paracurve/claimdesk/internal/notify"
)

// AppendNotifications persists feed entries so they survive the process.
// Entries already present (same id) are left untouched.
func (s *Store) AppendNotifications(items []notify.Notification) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO notifications (id, level, title, message, resource, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	return s.db.WithTransaction(func(tx *sql.Tx) error {
		for _, n := range items {
			if _, err := tx.Exec(query, n.ID, string(n.Level), n.Title, n.Message, n.Resource, n.CreatedAt); err != nil {
				return fmt.Errorf("append notification %s: %w", n.ID, err)
			}
		}
		return nil
	})
}

// Notifications returns up to limit persisted entries, newest first. A
// non-positive limit returns everything.
func (s *Store) Notifications(limit int) ([]notify.Notification, error) {
	query := "SELECT id, level, title, message, resource, created_at FROM notifications ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	defer rows.Close()

	var items []notify.Notification
	for rows.Next() {
		var (
			n     notify.Notification
			level string
		)
		if err := rows.Scan(&n.ID, &level, &n.Title, &n.Message, &n.Resource, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Level = notify.Level(level)
		items = append(items, n)
	}
	return items, rows.Err()
}

// ClearNotifications empties the persisted feed.
func (s *Store) ClearNotifications() error {
	if _, err := s.db.Exec("DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
