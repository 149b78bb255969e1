package localstore

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Well-known preference keys.
const (
	PrefPageSize     = "list.page_size"
	PrefDefaultView  = "list.default_view"
	PrefExportFolder = "export.folder"
)

// SetPreference stores one preference value.
func (s *Store) SetPreference(key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, key, value); err != nil {
		s.logger.Error("Failed to set preference", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

// Preference returns one preference value. ok is false when unset.
func (s *Store) Preference(key string) (value string, ok bool, err error) {
	row := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load preference %s: %w", key, err)
	}
	return value, true, nil
}

// Preferences returns all stored preferences.
func (s *Store) Preferences() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM preferences ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs[key] = value
	}
	return prefs, rows.Err()
}

// DeletePreference removes one preference.
func (s *Store) DeletePreference(key string) error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	return nil
}
