package ports

import (
	"context"

	"github.com/bft-labs/readout/internal/domain"
)

// ReportRepository persists run reports.
// Implementations write atomically so a crash never leaves a partial report.
type ReportRepository interface {
	// Save persists the report and returns where it was written.
	Save(ctx context.Context, report domain.Report) (string, error)

	// Load reads a previously saved report by run id.
	Load(ctx context.Context, runID string) (domain.Report, error)
}
