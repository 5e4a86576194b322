package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/iaee/internal/adapters/file"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/ports"
)

// Ensure Store implements ReportStore
var _ ports.ReportStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesMarkdown(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	report := &domain.Report{ID: "report-1", Markdown: "# Title\n\n---\n"}
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	md, err := os.ReadFile(filepath.Join(dir, "report-1.md"))
	if err != nil {
		t.Fatalf("expected markdown file: %v", err)
	}
	if string(md) != report.Markdown {
		t.Errorf("markdown mismatch: got %q", md)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected exactly 2 files (no temp leftovers), got %d", len(entries))
	}

	if err := store.Delete(ctx, "report-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "report-1.md")); !os.IsNotExist(err) {
		t.Errorf("expected markdown file to be removed, stat err = %v", err)
	}
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		if err := store.Save(ctx, &domain.Report{ID: id}); err == nil {
			t.Errorf("Save(%q) expected error", id)
		}
		if _, err := store.Load(ctx, id); err == nil {
			t.Errorf("Load(%q) expected error", id)
		}
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no reports, got %v", ids)
	}
}
