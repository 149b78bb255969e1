package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestReportFolder_FilePath(t *testing.T) {
	base := t.TempDir()
	m := NewReportFolder(base, zap.NewNop())
	m.now = func() time.Time { return time.Date(2026, 8, 21, 10, 30, 0, 0, time.UTC) }

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "claims", "claims-20260821-103000.xlsx"},
		{"special characters stripped", "Q3/Claims: Berlin*", "Q3Claims_Berlin-20260821-103000.xlsx"},
		{"traversal neutralized", "../../escape", "....escape-20260821-103000.xlsx"},
		{"empty name falls back", "", "untitled-20260821-103000.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FilePath(tt.in)
			want := filepath.Join(base, tt.want)
			if got != want {
				t.Fatalf("FilePath(%q) = %q, want %q", tt.in, got, want)
			}
		})
	}
}

func TestReportFolder_Ensure(t *testing.T) {
	base := filepath.Join(t.TempDir(), "reports", "2026")
	m := NewReportFolder(base, zap.NewNop())

	if err := m.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	info, err := os.Stat(base)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", base)
	}

	if err := m.Ensure(); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}

	if m.Dir() != base {
		t.Fatalf("Dir() = %q, want %q", m.Dir(), base)
	}
}
