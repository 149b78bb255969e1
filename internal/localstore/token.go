package localstore

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SaveToken stores the session token, replacing any previous one.
func (s *Store) SaveToken(token string) error {
	query := `
		INSERT INTO session (id, token, saved_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, saved_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, token); err != nil {
		s.logger.Error("Failed to save token", zap.Error(err))
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Token returns the stored session token. ok is false when no session has
// been saved.
func (s *Store) Token() (token string, ok bool, err error) {
	row := s.db.QueryRow("SELECT token FROM session WHERE id = 1")
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load token: %w", err)
	}
	return token, token != "", nil
}

// ClearToken removes the stored session, e.g. on logout.
func (s *Store) ClearToken() error {
	if _, err := s.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		s.logger.Error("Failed to clear token", zap.Error(err))
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
