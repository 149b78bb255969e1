package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/pkg/utils"
)

// ReportFolder places generated reports under a single base directory with
// sanitized, timestamped file names.
type ReportFolder struct {
	baseDir string
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportFolder creates a new ReportFolder rooted at baseDir.
func NewReportFolder(baseDir string, logger *zap.Logger) *ReportFolder {
	return &ReportFolder{
		baseDir: baseDir,
		logger:  logger,
		now:     time.Now,
	}
}

// Dir returns the base directory reports are written into.
func (m *ReportFolder) Dir() string {
	return m.baseDir
}

// Ensure creates the base directory, including parents. It is idempotent.
func (m *ReportFolder) Ensure() error {
	if err := os.MkdirAll(m.baseDir, 0755); err != nil {
		m.logger.Error("Failed to create report folder",
			zap.String("dir", m.baseDir),
			zap.Error(err))
		return fmt.Errorf("failed to create report folder: %w", err)
	}
	return nil
}

// FilePath returns the path a report named name should be written to. The
// name is sanitized against path traversal and suffixed with a timestamp so
// repeated exports never clobber each other.
func (m *ReportFolder) FilePath(name string) string {
	safe := utils.SanitizeFileName(name)
	stamp := m.now().UTC().Format("20060102-150405")
	return filepath.Join(m.baseDir, fmt.Sprintf("%s-%s.xlsx", safe, stamp))
}
