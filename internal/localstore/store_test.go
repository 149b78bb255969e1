package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/domain"
	"github.com/paracurve/claimdesk/internal/notify"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "claimdesk.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_TokenRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Token(); err != nil || ok {
		t.Fatalf("Token() on empty store = ok %v, err %v; want false, nil", ok, err)
	}

	if err := s.SaveToken("tok-abc"); err != nil {
		t.Fatalf("SaveToken() failed: %v", err)
	}
	token, ok, err := s.Token()
	if err != nil || !ok || token != "tok-abc" {
		t.Fatalf("Token() = %q, %v, %v; want tok-abc, true, nil", token, ok, err)
	}

	// Saving again replaces, never duplicates.
	if err := s.SaveToken("tok-def"); err != nil {
		t.Fatalf("SaveToken() replace failed: %v", err)
	}
	token, _, _ = s.Token()
	if token != "tok-def" {
		t.Errorf("Token() after replace = %q, want tok-def", token)
	}

	if err := s.ClearToken(); err != nil {
		t.Fatalf("ClearToken() failed: %v", err)
	}
	if _, ok, _ := s.Token(); ok {
		t.Error("Token() after ClearToken() should report no session")
	}
}

func TestStore_Preferences(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Preference(PrefPageSize); err != nil || ok {
		t.Fatalf("Preference() unset = ok %v, err %v; want false, nil", ok, err)
	}

	if err := s.SetPreference(PrefPageSize, "25"); err != nil {
		t.Fatalf("SetPreference() failed: %v", err)
	}
	if err := s.SetPreference(PrefDefaultView, "approvals"); err != nil {
		t.Fatalf("SetPreference() failed: %v", err)
	}
	if err := s.SetPreference(PrefPageSize, "50"); err != nil {
		t.Fatalf("SetPreference() overwrite failed: %v", err)
	}

	value, ok, err := s.Preference(PrefPageSize)
	if err != nil || !ok || value != "50" {
		t.Errorf("Preference(page_size) = %q, %v, %v; want 50, true, nil", value, ok, err)
	}

	all, err := s.Preferences()
	if err != nil {
		t.Fatalf("Preferences() failed: %v", err)
	}
	if len(all) != 2 || all[PrefDefaultView] != "approvals" {
		t.Errorf("Preferences() = %v, want 2 entries", all)
	}

	if err := s.DeletePreference(PrefPageSize); err != nil {
		t.Fatalf("DeletePreference() failed: %v", err)
	}
	if _, ok, _ := s.Preference(PrefPageSize); ok {
		t.Error("Preference() after delete should be unset")
	}
}

func TestStore_Drafts(t *testing.T) {
	s := openTestStore(t)

	first, err := s.SaveDraft(domain.ClaimDraft{
		Input: domain.ClaimInput{
			Type:        domain.ClaimTypeTravel,
			Description: "taxi to airport",
			Amount:      42.50,
			Currency:    "EUR",
		},
		SavedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("SaveDraft() must assign an id")
	}

	second, err := s.SaveDraft(domain.ClaimDraft{
		Input: domain.ClaimInput{
			Type:        domain.ClaimTypeMeal,
			Description: "client dinner",
			Amount:      89,
			Currency:    "EUR",
		},
		SavedAt: time.Date(2025, 5, 2, 19, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SaveDraft() failed: %v", err)
	}

	drafts, err := s.Drafts()
	if err != nil {
		t.Fatalf("Drafts() failed: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("Drafts() returned %d, want 2", len(drafts))
	}
	if drafts[0].ID != second.ID {
		t.Errorf("Drafts() order: first = %s, want most recent (%s)", drafts[0].ID, second.ID)
	}
	if drafts[1].Input.Description != "taxi to airport" {
		t.Errorf("draft payload lost: %+v", drafts[1].Input)
	}

	// Overwrite keeps one row per id.
	first.Input.Amount = 45
	if _, err := s.SaveDraft(first); err != nil {
		t.Fatalf("SaveDraft() overwrite failed: %v", err)
	}
	drafts, _ = s.Drafts()
	if len(drafts) != 2 {
		t.Fatalf("overwrite duplicated: %d drafts", len(drafts))
	}

	if err := s.DeleteDraft(first.ID); err != nil {
		t.Fatalf("DeleteDraft() failed: %v", err)
	}
	drafts, _ = s.Drafts()
	if len(drafts) != 1 || drafts[0].ID != second.ID {
		t.Errorf("Drafts() after delete = %+v, want only %s", drafts, second.ID)
	}
}

func TestStore_NotificationFeed(t *testing.T) {
	s := openTestStore(t)

	items, err := s.Notifications(0)
	if err != nil || len(items) != 0 {
		t.Fatalf("Notifications() on empty store = %v, %v; want none", items, err)
	}

	batch := []notify.Notification{
		{
			ID:        "n-1",
			Level:     notify.LevelSuccess,
			Title:     "Claim submitted",
			Message:   "CLM-2026-0101 submitted",
			Resource:  "claims",
			CreatedAt: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "n-2",
			Level:     notify.LevelError,
			Title:     "Export failed",
			CreatedAt: time.Date(2026, 5, 11, 9, 0, 0, 0, time.UTC),
		},
	}
	if err := s.AppendNotifications(batch); err != nil {
		t.Fatalf("AppendNotifications() failed: %v", err)
	}

	// Replaying a batch must not duplicate entries.
	if err := s.AppendNotifications(batch[:1]); err != nil {
		t.Fatalf("AppendNotifications() replay failed: %v", err)
	}

	items, err = s.Notifications(0)
	if err != nil {
		t.Fatalf("Notifications() failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Notifications() returned %d, want 2", len(items))
	}
	if items[0].ID != "n-2" {
		t.Errorf("Notifications() order: first = %s, want newest (n-2)", items[0].ID)
	}
	if items[1].Level != notify.LevelSuccess || items[1].Message != "CLM-2026-0101 submitted" {
		t.Errorf("notification payload lost: %+v", items[1])
	}

	limited, err := s.Notifications(1)
	if err != nil || len(limited) != 1 || limited[0].ID != "n-2" {
		t.Errorf("Notifications(1) = %+v, %v; want only n-2", limited, err)
	}

	if err := s.ClearNotifications(); err != nil {
		t.Fatalf("ClearNotifications() failed: %v", err)
	}
	if items, _ := s.Notifications(0); len(items) != 0 {
		t.Errorf("Notifications() after clear = %d entries, want 0", len(items))
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claimdesk.db")

	s, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.SaveToken("persist-me"); err != nil {
		t.Fatalf("SaveToken() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	s2, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	token, ok, err := s2.Token()
	if err != nil || !ok || token != "persist-me" {
		t.Errorf("Token() after reopen = %q, %v, %v; want persist-me, true, nil", token, ok, err)
	}
}
