package notify

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCenter_PushAndRecent(t *testing.T) {
	c := NewCenter(10, zap.NewNop())

	first := c.Push(LevelSuccess, "claims", "Claim submitted", "CLM-001 is on its way")
	second := c.Push(LevelError, "claims", "Approval failed", "backend said no")

	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("notifications need distinct ids, got %q and %q", first.ID, second.ID)
	}

	recent := c.Recent(0)
	if len(recent) != 2 {
		t.Fatalf("Recent(0) returned %d, want 2", len(recent))
	}
	if recent[0].ID != second.ID {
		t.Errorf("Recent()[0] = %s, want newest first", recent[0].Title)
	}

	one := c.Recent(1)
	if len(one) != 1 || one[0].ID != second.ID {
		t.Errorf("Recent(1) = %+v, want only the newest", one)
	}
}

func TestCenter_CapacityEvictsOldest(t *testing.T) {
	c := NewCenter(3, zap.NewNop())

	for i := 1; i <= 5; i++ {
		c.Push(LevelInfo, "", fmt.Sprintf("n%d", i), "")
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want capacity 3", c.Len())
	}
	recent := c.Recent(0)
	if recent[0].Title != "n5" || recent[2].Title != "n3" {
		t.Errorf("feed = [%s %s %s], want [n5 n4 n3]", recent[0].Title, recent[1].Title, recent[2].Title)
	}
}

func TestCenter_Dismiss(t *testing.T) {
	c := NewCenter(10, zap.NewNop())
	keep := c.Push(LevelInfo, "", "keep", "")
	drop := c.Push(LevelInfo, "", "drop", "")

	if !c.Dismiss(drop.ID) {
		t.Fatal("Dismiss() of an existing id should return true")
	}
	if c.Dismiss(drop.ID) {
		t.Error("Dismiss() of a removed id should return false")
	}

	recent := c.Recent(0)
	if len(recent) != 1 || recent[0].ID != keep.ID {
		t.Errorf("feed after dismiss = %+v, want only %q", recent, keep.Title)
	}
}

func TestCenter_Clear(t *testing.T) {
	c := NewCenter(10, zap.NewNop())
	c.Push(LevelWarning, "", "a", "")
	c.Push(LevelWarning, "", "b", "")
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", c.Len())
	}
}

func TestCenter_RecentReturnsCopy(t *testing.T) {
	c := NewCenter(10, zap.NewNop())
	c.Push(LevelInfo, "", "original", "")

	got := c.Recent(0)
	got[0].Title = "mutated"

	if c.Recent(0)[0].Title != "original" {
		t.Error("Recent() must return a copy of the feed")
	}
}

func TestCenter_Timestamps(t *testing.T) {
	c := NewCenter(10, zap.NewNop())
	fixed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	n := c.Push(LevelInfo, "", "timed", "")
	if !n.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", n.CreatedAt, fixed)
	}
}
