package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/iaee/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractReport(id string) *domain.Report {
	return &domain.Report{
		ID:           id,
		ExperienceID: "contract-experience",
		Title:        "Contract",
		Approved:     true,
		Markdown:     "# Contract\n\n---\n",
		Results:      domain.Results{"s1": "x", "count": 42},
		Comments:     domain.Comments{"s1": "fine"},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

// RunReportStoreContract runs a suite of tests to verify that a ReportStore
// implementation adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	reportID := "contract-test-report-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		report := contractReport(reportID)

		err := store.Save(ctx, report)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, reportID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report.ExperienceID, loaded.ExperienceID)
		assert.Equal(t, report.Markdown, loaded.Markdown)
		assert.True(t, loaded.Approved)
		assert.Equal(t, "x", loaded.Results["s1"])
		assert.Equal(t, "fine", loaded.Comments["s1"])
		assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))
		// JSON backends turn ints into float64, so only check presence.
		assert.NotNil(t, loaded.Results["count"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+reportID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, contractReport(reportID))
		require.NoError(t, err)

		err = store.Delete(ctx, reportID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, reportID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")

		assert.NoError(t, store.Delete(ctx, reportID), "Delete of a missing report should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := reportID + "-1"
		id2 := reportID + "-2"
		_ = store.Save(ctx, contractReport(id1))
		_ = store.Save(ctx, contractReport(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		reports, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, reports, id1)
		assert.Contains(t, reports, id2)
	})
}
