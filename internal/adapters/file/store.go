package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/iaee/pkg/domain"
)

// Store implements ports.ReportStore using the local filesystem.
// Each report is kept as {id}.json next to a rendered {id}.md.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".iaee/reports".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".iaee", "reports")
	}
	return &Store{BasePath: basePath}
}

func validID(reportID string) error {
	if reportID == "" {
		return fmt.Errorf("reportID cannot be empty")
	}
	if strings.ContainsAny(reportID, `/\`) || reportID == "." || reportID == ".." {
		return fmt.Errorf("reportID %q is not a valid file name", reportID)
	}
	return nil
}

// Save persists the report atomically.
// The JSON document is the source of truth; the Markdown file is a convenience
// copy, skipped when the report carries none (e.g. encrypted envelopes).
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	if err := validID(report.ID); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure report directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if report.Markdown != "" {
		if err := s.writeAtomic(report.ID+".md", []byte(report.Markdown)); err != nil {
			return err
		}
	}
	return s.writeAtomic(report.ID+".json", data)
}

// writeAtomic writes to a temp file in the same directory, syncs it and
// renames it over the destination.
func (s *Store) writeAtomic(name string, data []byte) error {
	destPath := filepath.Join(s.BasePath, name)

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing report file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", name, err)
	}
	return nil
}

// Load retrieves the report from its JSON file.
func (s *Store) Load(ctx context.Context, reportID string) (*domain.Report, error) {
	if err := validID(reportID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, reportID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Delete removes both report files.
func (s *Store) Delete(ctx context.Context, reportID string) error {
	if err := validID(reportID); err != nil {
		return err
	}

	for _, ext := range []string{".json", ".md"} {
		err := os.Remove(filepath.Join(s.BasePath, reportID+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete report file: %w", err)
		}
	}
	return nil
}

// List returns all stored report IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var reports []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		reports = append(reports, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(reports)
	return reports, nil
}
