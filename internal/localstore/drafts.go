package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/domain"
)

// SaveDraft stores an unsubmitted claim form. A draft without an id is
// assigned one; saving an existing id overwrites that draft.
func (s *Store) SaveDraft(draft domain.ClaimDraft) (domain.ClaimDraft, error) {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.SavedAt.IsZero() {
		draft.SavedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(draft.Input)
	if err != nil {
		return domain.ClaimDraft{}, fmt.Errorf("encode draft: %w", err)
	}

	query := `
		INSERT INTO claim_drafts (id, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`
	if _, err := s.db.Exec(query, draft.ID, string(payload), draft.SavedAt); err != nil {
		s.logger.Error("Failed to save draft", zap.String("id", draft.ID), zap.Error(err))
		return domain.ClaimDraft{}, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// Drafts returns all saved drafts, most recently saved first.
func (s *Store) Drafts() ([]domain.ClaimDraft, error) {
	rows, err := s.db.Query("SELECT id, payload, saved_at FROM claim_drafts ORDER BY saved_at DESC")
	if err != nil {
		return nil, fmt.Errorf("load drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.ClaimDraft
	for rows.Next() {
		var (
			draft   domain.ClaimDraft
			payload string
		)
		if err := rows.Scan(&draft.ID, &payload, &draft.SavedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &draft.Input); err != nil {
			// A corrupt row should not hide the remaining drafts.
			s.logger.Warn("Skipping unreadable draft",
				zap.String("id", draft.ID),
				zap.Error(err))
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

// DeleteDraft removes one draft, typically after successful submission.
func (s *Store) DeleteDraft(id string) error {
	if _, err := s.db.Exec("DELETE FROM claim_drafts WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
