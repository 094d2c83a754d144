package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bft-labs/readout/internal/domain"
	"github.com/bft-labs/readout/internal/ports"
)

const (
	reportPrefix = "report-"
	reportSuffix = ".json"
)

// ReportFileRepository implements ports.ReportRepository with one JSON file
// per run.
type ReportFileRepository struct {
	dir string
}

// NewReportFileRepository creates a repository rooted at dir.
func NewReportFileRepository(dir string) *ReportFileRepository {
	return &ReportFileRepository{dir: dir}
}

// Save writes report atomically and returns the file path.
func (r *ReportFileRepository) Save(ctx context.Context, report domain.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if report.RunID == "" {
		return "", fmt.Errorf("%w: report has no run id", domain.ErrInvalidConfig)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	path := r.Path(report.RunID)
	if err := writeAtomic(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads the report for runID. A missing report yields an error
// matching os.ErrNotExist.
func (r *ReportFileRepository) Load(ctx context.Context, runID string) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}
	data, err := os.ReadFile(r.Path(runID))
	if err != nil {
		return domain.Report{}, err
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.Report{}, fmt.Errorf("decode report %s: %w", runID, err)
	}
	return report, nil
}

// List returns the run ids with a saved report, sorted.
func (r *ReportFileRepository) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, reportPrefix) || !strings.HasSuffix(name, reportSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, reportPrefix), reportSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

// Path returns the file path used for runID.
func (r *ReportFileRepository) Path(runID string) string {
	return filepath.Join(r.dir, reportPrefix+runID+reportSuffix)
}

var _ ports.ReportRepository = (*ReportFileRepository)(nil)
