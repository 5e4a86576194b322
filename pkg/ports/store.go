package ports

import (
	"context"

	"github.com/aretw0/iaee/pkg/domain"
)

// ReportStore defines the interface for keeping compiled reports.
// Submissions are published to every configured store.
type ReportStore interface {
	// Save persists the report under report.ID.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves a report by ID.
	// Returns domain.ErrReportNotFound if the report does not exist.
	Load(ctx context.Context, reportID string) (*domain.Report, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, reportID string) error

	// List returns the IDs of the stored reports.
	List(ctx context.Context) ([]string, error)
}
